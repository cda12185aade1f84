package command

import (
	"context"
	"fmt"
)

type TrendsCommand struct {
	views     EngineViews
	formatter *ResponseFormatter
}

func NewTrendsCommand(views EngineViews) *TrendsCommand {
	return &TrendsCommand{
		views:     views,
		formatter: NewResponseFormatter(),
	}
}

func (c *TrendsCommand) Name() string {
	return "trends"
}

func (c *TrendsCommand) Description() string {
	return "Show the sentiment trend of the conversation"
}

func (c *TrendsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	slope := c.views.SentimentTrend(sessionID)

	var mood string
	switch {
	case slope > 0.01:
		mood = "improving"
	case slope < -0.01:
		mood = "declining"
	default:
		mood = "steady"
	}

	return c.formatter.Combine(
		c.formatter.Info("Sentiment Trend"),
		c.formatter.Label("Direction", mood),
		c.formatter.Label("Slope", fmt.Sprintf("%+.4f", slope)),
		c.formatter.Label("State", c.views.State(sessionID).String()),
	), nil
}
