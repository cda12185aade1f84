package templates

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conversify/conversify/pkg/log"
)

// Store holds the response pools keyed by mode then intent, loaded once at
// startup. Read-only after Load, so lookups need no locking.
type Store struct {
	modes map[string]map[string][]string
}

// Load reads a YAML template file shaped as mode -> intent -> [responses].
// A missing file is not an error: the generator has its own fallbacks.
func Load(ctx context.Context, path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.FromCtx(ctx).Info().Str("path", path).Msg("no template file, using built-in defaults")
			return &Store{modes: defaultTemplates()}, nil
		}
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	modes := make(map[string]map[string][]string)
	if err := yaml.Unmarshal(data, &modes); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Built-in pools fill any mode the file does not define
	for mode, intents := range defaultTemplates() {
		if _, ok := modes[mode]; !ok {
			modes[mode] = intents
		}
	}

	log.FromCtx(ctx).Debug().Int("modes", len(modes)).Str("path", path).Msg("loaded response templates")
	return &Store{modes: modes}, nil
}

// Lookup returns the candidate responses for (mode, intent), nil when absent.
func (s *Store) Lookup(mode, intent string) []string {
	return s.modes[mode][intent]
}

func defaultTemplates() map[string]map[string][]string {
	return map[string]map[string][]string{
		"casual": {
			"thank": {
				"Anytime! Happy to help.",
				"No problem at all!",
			},
			"about": {
				"I'm Conversify, a conversational assistant. Ask me anything!",
				"Just a friendly chat engine here to keep you company.",
			},
			"capabilities": {
				"I can chat, track what we talk about, and learn what you like.",
				"Ask me questions, tell me about your day, or just say hi!",
			},
			"help": {
				"Sure, I'm here to help! What do you need?",
				"Happy to help. Tell me what's going on.",
			},
		},
		"professional": {
			"thank": {
				"You're welcome. Is there anything else I can assist with?",
			},
			"about": {
				"I am Conversify, a conversational assistant.",
			},
			"capabilities": {
				"I can answer questions and keep track of our discussion topics.",
			},
			"help": {
				"Certainly. Please describe what you need assistance with.",
			},
		},
	}
}
