package conversation

import (
	"time"

	"github.com/conversify/conversify/internal/core"
)

const sentimentHistoryLimit = 100

// Context is the mutable state of one chat session: bounded message history,
// a symmetric topic co-occurrence graph, a rolling sentiment history and the
// current conversation state.
//
// Callers must serialize access per session; the engine holds one mutex per
// session for exactly that reason. The State field is assigned by the engine's
// transition policy, never by this package.
type Context struct {
	State core.ConversationState

	// Dialogue memory scoped to this session: the name given in a
	// "my name is" introduction and the running topic for follow-ups.
	// Written by the response generator, never shared across sessions.
	UserName  string
	LastTopic string

	messages     []core.Message
	maxSize      int
	topicGraph   map[string]map[string]struct{}
	sentiments   []float64
	activeTopics map[string]struct{}
	lastUpdate   time.Time
}

func New(maxSize int) *Context {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &Context{
		State:        core.StateInitial,
		maxSize:      maxSize,
		topicGraph:   make(map[string]map[string]struct{}),
		activeTopics: make(map[string]struct{}),
	}
}

// AddMessage appends msg to the bounded history, links every pair of its
// topics in the graph and records its sentiment. Always succeeds; a message
// with no topics only touches the sentiment history.
func (c *Context) AddMessage(msg core.Message) {
	c.messages = append(c.messages, msg)
	if len(c.messages) > c.maxSize {
		c.messages = c.messages[1:]
	}

	for _, topic := range msg.Topics {
		c.activeTopics[topic] = struct{}{}
		for _, other := range msg.Topics {
			if topic == other {
				continue
			}
			if c.topicGraph[topic] == nil {
				c.topicGraph[topic] = make(map[string]struct{})
			}
			c.topicGraph[topic][other] = struct{}{}
		}
	}

	c.sentiments = append(c.sentiments, msg.Sentiment)
	if len(c.sentiments) > sentimentHistoryLimit {
		c.sentiments = c.sentiments[len(c.sentiments)-sentimentHistoryLimit:]
	}

	c.lastUpdate = time.Now()
}

// Messages returns a copy of the current history, oldest first.
func (c *Context) Messages() []core.Message {
	out := make([]core.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Context) Len() int {
	return len(c.messages)
}

// TopicRelationships returns, for every topic seen so far, the topics that
// ever co-occurred with it in a single message.
func (c *Context) TopicRelationships() map[string][]string {
	out := make(map[string][]string, len(c.topicGraph))
	for topic, related := range c.topicGraph {
		list := make([]string, 0, len(related))
		for other := range related {
			list = append(list, other)
		}
		out[topic] = list
	}
	return out
}

// ActiveTopics returns every topic the session has touched. The set grows
// monotonically for the session's lifetime.
func (c *Context) ActiveTopics() []string {
	out := make([]string, 0, len(c.activeTopics))
	for topic := range c.activeTopics {
		out = append(out, topic)
	}
	return out
}

// SentimentHistory returns a copy of the rolling sentiment window.
func (c *Context) SentimentHistory() []float64 {
	out := make([]float64, len(c.sentiments))
	copy(out, c.sentiments)
	return out
}

// SentimentTrend is the least-squares slope of sentiment over message
// position. Positive means the tone is improving. Returns 0 with fewer than
// two samples.
func (c *Context) SentimentTrend() float64 {
	n := len(c.sentiments)
	if n < 2 {
		return 0.0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range c.sentiments {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	return (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
}

func (c *Context) LastUpdate() time.Time {
	return c.lastUpdate
}
