package command

import (
	"context"
	"fmt"
	"sort"
)

type SummarizeCommand struct {
	views     EngineViews
	formatter *ResponseFormatter
}

func NewSummarizeCommand(views EngineViews) *SummarizeCommand {
	return &SummarizeCommand{
		views:     views,
		formatter: NewResponseFormatter(),
	}
}

func (c *SummarizeCommand) Name() string {
	return "summarize"
}

func (c *SummarizeCommand) Description() string {
	return "Summarize the conversation so far"
}

func (c *SummarizeCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	sum := c.views.Summarize(sessionID)
	if sum.TotalMessages == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Summary"),
			"Nothing to summarize yet.",
		), nil
	}

	// most-discussed first, name breaking ties
	topics := make([]string, 0, len(sum.TopicCounts))
	for topic := range sum.TopicCounts {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool {
		if sum.TopicCounts[topics[i]] != sum.TopicCounts[topics[j]] {
			return sum.TopicCounts[topics[i]] > sum.TopicCounts[topics[j]]
		}
		return topics[i] < topics[j]
	})

	items := make([]string, 0, len(topics))
	for _, topic := range topics {
		items = append(items, fmt.Sprintf("%s (%d mentions)", topic, sum.TopicCounts[topic]))
	}

	sections := []string{
		c.formatter.Info("Summary"),
		c.formatter.Label("Messages", fmt.Sprintf("%d", sum.TotalMessages)),
		c.formatter.Label("Topics covered", fmt.Sprintf("%d", sum.TopicsCovered)),
		c.formatter.Label("Duration", fmt.Sprintf("%.1f min", sum.DurationMinutes)),
	}
	if len(items) > 0 {
		sections = append(sections, c.formatter.List(items))
	}
	return c.formatter.Combine(sections...), nil
}
