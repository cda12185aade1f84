package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type TopicsCommand struct {
	views     EngineViews
	formatter *ResponseFormatter
}

func NewTopicsCommand(views EngineViews) *TopicsCommand {
	return &TopicsCommand{
		views:     views,
		formatter: NewResponseFormatter(),
	}
}

func (c *TopicsCommand) Name() string {
	return "topics"
}

func (c *TopicsCommand) Description() string {
	return "Show discussed topics and how they relate"
}

func (c *TopicsCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	rels := c.views.TopicRelationships(sessionID)
	if len(rels) == 0 {
		return c.formatter.Combine(
			c.formatter.Info("Topics"),
			"No topics discussed yet. Say something!",
		), nil
	}

	topics := make([]string, 0, len(rels))
	for topic := range rels {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	items := make([]string, 0, len(topics))
	for _, topic := range topics {
		related := rels[topic]
		if len(related) == 0 {
			items = append(items, topic)
			continue
		}
		sort.Strings(related)
		items = append(items, fmt.Sprintf("%s (related: %s)", topic, strings.Join(related, ", ")))
	}

	return c.formatter.Combine(
		c.formatter.Info("Topics"),
		c.formatter.List(items),
	), nil
}
