package conversation

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/conversify/conversify/internal/core"
)

func msgWithTopics(topics ...string) core.Message {
	m := core.NewMessage(core.RoleUser, "test message")
	m.Topics = topics
	return m
}

func msgWithSentiment(s float64) core.Message {
	m := core.NewMessage(core.RoleUser, "test message")
	m.Sentiment = s
	return m
}

func TestContext_HistoryBound(t *testing.T) {
	tests := []struct {
		name     string
		maxSize  int
		messages int
		wantLen  int
	}{
		{name: "under_capacity", maxSize: 10, messages: 3, wantLen: 3},
		{name: "at_capacity", maxSize: 10, messages: 10, wantLen: 10},
		{name: "over_capacity", maxSize: 10, messages: 25, wantLen: 10},
		{name: "capacity_one", maxSize: 1, messages: 5, wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.maxSize)
			for i := 0; i < tt.messages; i++ {
				m := core.NewMessage(core.RoleUser, fmt.Sprintf("msg %d", i))
				m.ID = fmt.Sprintf("%d", i)
				c.AddMessage(m)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("len = %d, want %d", c.Len(), tt.wantLen)
			}

			// Oldest evicted first: last message must always survive
			msgs := c.Messages()
			wantLast := fmt.Sprintf("msg %d", tt.messages-1)
			if got := msgs[len(msgs)-1].Content; got != wantLast {
				t.Errorf("newest message = %q, want %q", got, wantLast)
			}
		})
	}
}

func TestContext_SentimentHistoryBound(t *testing.T) {
	c := New(1000)
	for i := 0; i < 250; i++ {
		c.AddMessage(msgWithSentiment(float64(i)))
	}

	hist := c.SentimentHistory()
	if len(hist) != 100 {
		t.Fatalf("sentiment history len = %d, want 100", len(hist))
	}
	// Oldest dropped first
	if hist[0] != 150.0 {
		t.Errorf("hist[0] = %v, want 150.0", hist[0])
	}
	if hist[99] != 249.0 {
		t.Errorf("hist[99] = %v, want 249.0", hist[99])
	}
}

func TestContext_TopicGraphSymmetry(t *testing.T) {
	tests := []struct {
		name     string
		messages [][]string
	}{
		{name: "single_pair", messages: [][]string{{"go", "testing"}}},
		{name: "triple", messages: [][]string{{"go", "testing", "ci"}}},
		{name: "across_messages", messages: [][]string{{"go", "testing"}, {"testing", "ci"}, {"ci", "go"}}},
		{name: "duplicate_topic", messages: [][]string{{"go", "go", "testing"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(100)
			for _, topics := range tt.messages {
				c.AddMessage(msgWithTopics(topics...))
			}

			rel := c.TopicRelationships()
			for topic, related := range rel {
				for _, other := range related {
					found := false
					for _, back := range rel[other] {
						if back == topic {
							found = true
							break
						}
					}
					if !found {
						t.Errorf("graph not symmetric: %s -> %s has no reverse edge", topic, other)
					}
				}
			}
		})
	}
}

func TestContext_TopicGraphNoSelfEdges(t *testing.T) {
	c := New(100)
	c.AddMessage(msgWithTopics("go", "go", "testing"))

	for topic, related := range c.TopicRelationships() {
		for _, other := range related {
			if topic == other {
				t.Errorf("self edge on %s", topic)
			}
		}
	}
}

func TestContext_ActiveTopics(t *testing.T) {
	c := New(2)
	c.AddMessage(msgWithTopics("go"))
	c.AddMessage(msgWithTopics("testing"))
	c.AddMessage(msgWithTopics("ci")) // evicts the "go" message

	topics := c.ActiveTopics()
	sort.Strings(topics)
	want := []string{"ci", "go", "testing"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		// Active topics survive history eviction
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %s, want %s", i, topics[i], want[i])
		}
	}
}

func TestContext_SentimentTrend(t *testing.T) {
	tests := []struct {
		name       string
		sentiments []float64
		check      func(t *testing.T, slope float64)
	}{
		{
			name:       "empty",
			sentiments: nil,
			check: func(t *testing.T, slope float64) {
				if slope != 0.0 {
					t.Errorf("slope = %v, want 0.0", slope)
				}
			},
		},
		{
			name:       "single_sample",
			sentiments: []float64{0.5},
			check: func(t *testing.T, slope float64) {
				if slope != 0.0 {
					t.Errorf("slope = %v, want 0.0", slope)
				}
			},
		},
		{
			name:       "improving",
			sentiments: []float64{0.0, 1.0},
			check: func(t *testing.T, slope float64) {
				if slope <= 0 {
					t.Errorf("slope = %v, want positive", slope)
				}
			},
		},
		{
			name:       "declining",
			sentiments: []float64{1.0, 0.0},
			check: func(t *testing.T, slope float64) {
				if slope >= 0 {
					t.Errorf("slope = %v, want negative", slope)
				}
			},
		},
		{
			name:       "flat",
			sentiments: []float64{0.3, 0.3, 0.3, 0.3},
			check: func(t *testing.T, slope float64) {
				if math.Abs(slope) > 1e-9 {
					t.Errorf("slope = %v, want ~0", slope)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1000)
			for _, s := range tt.sentiments {
				c.AddMessage(msgWithSentiment(s))
			}
			tt.check(t, c.SentimentTrend())
		})
	}
}

// leastSquaresSlope is an independent reference implementation.
func leastSquaresSlope(ys []float64) float64 {
	n := float64(len(ys))
	meanX := (n - 1) / 2
	var meanY float64
	for _, y := range ys {
		meanY += y
	}
	meanY /= n

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return num / den
}

func TestContext_SentimentTrendMatchesReference(t *testing.T) {
	c := New(1000)
	var ys []float64
	for i := 0; i < 50; i++ {
		y := 0.02*float64(i) + math.Sin(float64(i)/3)*0.1
		ys = append(ys, y)
		c.AddMessage(msgWithSentiment(y))
	}

	got := c.SentimentTrend()
	want := leastSquaresSlope(ys)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("slope = %v, reference = %v (diff %g)", got, want, math.Abs(got-want))
	}
}

func TestContext_NoTopicsOnlySentiment(t *testing.T) {
	c := New(100)
	c.AddMessage(msgWithSentiment(0.7))

	if len(c.TopicRelationships()) != 0 {
		t.Error("expected empty topic graph")
	}
	if len(c.SentimentHistory()) != 1 {
		t.Error("expected one sentiment sample")
	}
}
