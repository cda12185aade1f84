package command

import (
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/engine"
)

// EngineViews is the slice of the engine the command surface reads from.
type EngineViews interface {
	State(sessionID string) core.ConversationState
	TopicRelationships(sessionID string) map[string][]string
	SentimentTrend(sessionID string) float64
	Summarize(sessionID string) engine.Summary
	Export(sessionID string) engine.Export
}
