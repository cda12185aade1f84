package responder

import (
	"fmt"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/conversation"
	"github.com/conversify/conversify/internal/service/profile"
)

func (g *Generator) handleInitial(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string {
	if msg.Intent != nil {
		if options := g.templates.Lookup(mode, msg.Intent.Primary); len(options) > 0 {
			return g.pick(options)
		}
	}

	greeting := g.timeGreeting(mode)

	// Returning users get a nod to their strongest preference
	if prof.HasInteractions() {
		if top := prof.PreferredTopics(1); len(top) > 0 {
			greeting += fmt.Sprintf(" I remember you're interested in %s!", top[0].Topic)
		}
	}

	return greeting
}

func (g *Generator) handleEngaged(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string {
	if msg.Intent != nil {
		primary := msg.Intent.Primary

		if (primary == "question" || primary == "clarification") && conv.LastTopic != "" {
			return fmt.Sprintf("What would you like to know about %s?", conv.LastTopic)
		}

		if options := g.templates.Lookup(mode, primary); len(options) > 0 {
			conv.LastTopic = primary
			return g.pick(options)
		}
	}

	if topics := msg.Entities["topics"]; len(topics) > 0 {
		conv.LastTopic = topics[0]
		return "What's on your mind? I'm here to chat about anything!"
	}

	return "I'm here to chat! What's on your mind?"
}

func (g *Generator) handleClarifying(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string {
	return "Could you tell me more about what you mean?"
}

func (g *Generator) handleConcluding(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string {
	conv.LastTopic = ""
	return "Goodbye! Have a great day!"
}

func (g *Generator) handleIdle(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string {
	return "I'm here if you'd like to continue our chat!"
}

type timeOfDay int

const (
	morning timeOfDay = iota
	afternoon
	evening
	night
)

var greetings = map[string]map[timeOfDay]string{
	"casual": {
		morning:   "Good morning! How can I help?",
		afternoon: "Hey there! What's on your mind?",
		evening:   "Good evening! How can I assist you?",
		night:     "Hi! What can I help you with?",
	},
	"professional": {
		morning:   "Good morning. How may I assist you?",
		afternoon: "Good afternoon. How can I help?",
		evening:   "Good evening. What can I do for you?",
		night:     "Hello. How may I help you?",
	},
}

func (g *Generator) timeGreeting(mode string) string {
	table, ok := greetings[mode]
	if !ok {
		table = greetings["casual"]
	}
	return table[bucketFor(g.now().Hour())]
}

func bucketFor(hour int) timeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return morning
	case hour >= 12 && hour < 17:
		return afternoon
	case hour >= 17 && hour < 22:
		return evening
	default:
		return night
	}
}
