package engine

import (
	"strconv"

	"github.com/conversify/conversify/internal/core"
)

// Read-only views over session state, used by the command surface. Each takes
// the session lock so commands can run alongside message processing.

func (e *Engine) TopicRelationships(sessionID string) map[string][]string {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.TopicRelationships()
}

func (e *Engine) SentimentTrend(sessionID string) float64 {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.SentimentTrend()
}

func (e *Engine) ProfileSnapshot(sessionID string) core.ProfileSnapshot {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prof.Snapshot()
}

// Export is the full serializable dump of one session.
type Export struct {
	SessionID    string               `json:"session_id"`
	State        string               `json:"state"`
	Messages     []core.Message       `json:"messages"`
	ActiveTopics []string             `json:"active_topics"`
	Sentiments   []float64            `json:"sentiment_history"`
	Profile      core.ProfileSnapshot `json:"profile"`
}

func (e *Engine) Export(sessionID string) Export {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	return Export{
		SessionID:    sessionID,
		State:        s.conv.State.String(),
		Messages:     s.conv.Messages(),
		ActiveTopics: s.conv.ActiveTopics(),
		Sentiments:   s.conv.SentimentHistory(),
		Profile:      s.prof.Snapshot(),
	}
}

// Summary aggregates a session's discussion for the /summarize view.
type Summary struct {
	TopicCounts     map[string]int
	TotalMessages   int
	TopicsCovered   int
	DurationMinutes float64
}

func (e *Engine) Summarize(sessionID string) Summary {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.conv.Messages()
	sum := Summary{TopicCounts: make(map[string]int)}
	sum.TotalMessages = len(msgs)
	for _, m := range msgs {
		for _, topic := range m.Topics {
			sum.TopicCounts[topic]++
		}
	}
	sum.TopicsCovered = len(sum.TopicCounts)

	if len(msgs) >= 2 {
		first, errF := strconv.ParseFloat(msgs[0].ID, 64)
		last, errL := strconv.ParseFloat(msgs[len(msgs)-1].ID, 64)
		if errF == nil && errL == nil {
			sum.DurationMinutes = (last - first) / 60
		}
	}
	return sum
}
