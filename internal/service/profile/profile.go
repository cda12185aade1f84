package profile

import (
	"fmt"
	"sort"

	"github.com/conversify/conversify/internal/core"
)

var (
	positiveIntents = map[string]struct{}{"like": {}, "prefer": {}, "enjoy": {}}
	negativeIntents = map[string]struct{}{"dislike": {}, "hate": {}, "avoid": {}}
)

// TopicScore pairs a topic with its signed preference score.
type TopicScore struct {
	Topic string
	Score float64
}

// Profile accumulates what we know about one end user across sessions:
// interest counts per topic, when they tend to talk, which topics they like or
// dislike, and aggregates of their conversation style.
//
// Not safe for concurrent use; the engine serializes updates per session.
type Profile struct {
	interests           map[string]float64
	interactionPatterns map[string]int
	topicPreferences    map[string]float64
	prefOrder           []string // first-touch order, used for stable ties
	engagementMetrics   map[string]float64
	responseHistory     map[string][]string // reserved for per-key response logs

	avgMessageLength float64
	messageCount     int
}

func New() *Profile {
	return &Profile{
		interests:           make(map[string]float64),
		interactionPatterns: make(map[string]int),
		topicPreferences:    make(map[string]float64),
		engagementMetrics:   make(map[string]float64),
		responseHistory:     make(map[string][]string),
	}
}

// UpdateFromMessage folds one message into the profile. Interests grow by one
// per topic occurrence; preferences move by the message's like/dislike intent;
// the average message length is maintained with the incremental mean formula,
// never recomputed from scratch.
func (p *Profile) UpdateFromMessage(msg core.Message) {
	for _, topic := range msg.Topics {
		p.interests[topic] += 1.0
	}

	p.interactionPatterns[fmt.Sprintf("hour_%d", msg.Hour())]++

	if msg.Intent != nil {
		_, positive := positiveIntents[msg.Intent.Primary]
		_, negative := negativeIntents[msg.Intent.Primary]
		// Only like/dislike intents touch preferences; a neutral mention of a
		// topic must never surface it as a preferred one.
		if positive || negative {
			for _, topic := range msg.Topics {
				if _, seen := p.topicPreferences[topic]; !seen {
					p.topicPreferences[topic] = 0
					p.prefOrder = append(p.prefOrder, topic)
				}
				if positive {
					p.topicPreferences[topic] += 1.0
				} else {
					p.topicPreferences[topic] -= 1.0
				}
			}
		}
	}

	length := float64(msg.WordCount())
	p.avgMessageLength = (p.avgMessageLength*float64(p.messageCount) + length) /
		float64(p.messageCount+1)
	p.messageCount++
}

// PreferredTopics returns the n highest-scoring topics, descending. Ties keep
// first-touch order.
func (p *Profile) PreferredTopics(n int) []TopicScore {
	out := make([]TopicScore, 0, len(p.prefOrder))
	for _, topic := range p.prefOrder {
		out = append(out, TopicScore{Topic: topic, Score: p.topicPreferences[topic]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// EngagementScore is the arithmetic mean of all engagement metrics, 0 when
// none have been recorded.
func (p *Profile) EngagementScore() float64 {
	if len(p.engagementMetrics) == 0 {
		return 0.0
	}
	var sum float64
	for _, v := range p.engagementMetrics {
		sum += v
	}
	return sum / float64(len(p.engagementMetrics))
}

// SetEngagementMetric records a named engagement measurement.
func (p *Profile) SetEngagementMetric(name string, value float64) {
	p.engagementMetrics[name] = value
}

func (p *Profile) MessageCount() int {
	return p.messageCount
}

func (p *Profile) AvgMessageLength() float64 {
	return p.avgMessageLength
}

func (p *Profile) InterestIn(topic string) float64 {
	return p.interests[topic]
}

func (p *Profile) InteractionCount(hour int) int {
	return p.interactionPatterns[fmt.Sprintf("hour_%d", hour)]
}

func (p *Profile) HasInteractions() bool {
	return len(p.interactionPatterns) > 0
}

// Snapshot exports the profile as plain maps suitable for serialization.
// Mutating the result does not affect the profile.
func (p *Profile) Snapshot() core.ProfileSnapshot {
	snap := core.ProfileSnapshot{
		Interests:           make(map[string]float64, len(p.interests)),
		TopicPreferences:    make(map[string]float64, len(p.topicPreferences)),
		EngagementMetrics:   make(map[string]float64, len(p.engagementMetrics)),
		InteractionPatterns: make(map[string]int, len(p.interactionPatterns)),
		ConversationStyle: map[string]float64{
			"avg_message_length": p.avgMessageLength,
			"message_count":      float64(p.messageCount),
		},
	}
	for k, v := range p.interests {
		snap.Interests[k] = v
	}
	for k, v := range p.topicPreferences {
		snap.TopicPreferences[k] = v
	}
	for k, v := range p.engagementMetrics {
		snap.EngagementMetrics[k] = v
	}
	for k, v := range p.interactionPatterns {
		snap.InteractionPatterns[k] = v
	}
	return snap
}

// Restore rebuilds a profile from a stored snapshot.
func Restore(snap core.ProfileSnapshot) *Profile {
	p := New()
	for k, v := range snap.Interests {
		p.interests[k] = v
	}
	for k, v := range snap.TopicPreferences {
		p.topicPreferences[k] = v
		p.prefOrder = append(p.prefOrder, k)
	}
	sort.Strings(p.prefOrder)
	for k, v := range snap.EngagementMetrics {
		p.engagementMetrics[k] = v
	}
	for k, v := range snap.InteractionPatterns {
		p.interactionPatterns[k] = v
	}
	p.avgMessageLength = snap.ConversationStyle["avg_message_length"]
	p.messageCount = int(snap.ConversationStyle["message_count"])
	return p
}
