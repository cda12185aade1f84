package core

import "context"

type MessagesRepository interface {
	AddMessage(ctx context.Context, sessionID string, msg Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]Message, error)
}

type ProfilesRepository interface {
	SaveSnapshot(ctx context.Context, userID string, snap ProfileSnapshot) error
	LoadSnapshot(ctx context.Context, userID string) (ProfileSnapshot, error)
}

// ProfileSnapshot is the export form of a user profile: plain strings and
// numbers, ready for JSON or a database row.
type ProfileSnapshot struct {
	Interests           map[string]float64 `json:"interests"`
	TopicPreferences    map[string]float64 `json:"topic_preferences"`
	ConversationStyle   map[string]float64 `json:"conversation_style"`
	EngagementMetrics   map[string]float64 `json:"engagement_metrics"`
	InteractionPatterns map[string]int     `json:"interaction_patterns"`
}
