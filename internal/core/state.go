package core

// ConversationState is the finite-state model of a conversation. Concluding is
// soft: a conversation can keep going after a farewell.
type ConversationState int

const (
	StateInitial ConversationState = iota
	StateEngaged
	StateClarifying
	StateConcluding
	StateIdle
)

func (s ConversationState) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateEngaged:
		return "engaged"
	case StateClarifying:
		return "clarifying"
	case StateConcluding:
		return "concluding"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// AllStates lists every state. Dispatch tables must cover all of them.
func AllStates() []ConversationState {
	return []ConversationState{
		StateInitial,
		StateEngaged,
		StateClarifying,
		StateConcluding,
		StateIdle,
	}
}
