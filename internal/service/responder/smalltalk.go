package responder

import "strings"

// Smalltalk triggers are matched by substring in order, so the more specific
// phrases come first ("whats up" before "hi").
var smalltalkTriggers = []string{"whats up", "how are you", "hello", "hi"}

var smalltalkResponses = map[string][]string{
	"whats up": {
		"Not much, just here to chat! How are you?",
		"Just helping out! What's on your mind?",
		"All good here! What can I help you with?",
	},
	"how are you": {
		"I'm doing great, thanks for asking! How about you?",
		"I'm good! How's your day going?",
		"Doing well! What's new with you?",
	},
	"hello": {
		"Hi there! How can I help you today?",
		"Hello! What's on your mind?",
		"Hey! How can I assist you?",
	},
	"hi": {
		"Hi! How are you today?",
		"Hello there! What can I help you with?",
		"Hey! What's on your mind?",
	},
}

// SmalltalkPool exposes the fixed response pool for a trigger, mainly so tests
// can assert pool membership.
func SmalltalkPool(trigger string) []string {
	pool := smalltalkResponses[trigger]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

func (g *Generator) smalltalk(content string) (string, bool) {
	lower := strings.ToLower(content)
	for _, trigger := range smalltalkTriggers {
		if strings.Contains(lower, trigger) {
			return g.pick(smalltalkResponses[trigger]), true
		}
	}
	return "", false
}
