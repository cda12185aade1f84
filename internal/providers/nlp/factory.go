package nlp

import (
	"fmt"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
)

// NewAnnotator selects the collaborator implementation from config.
func NewAnnotator(cfg *config.NLPConfig) (core.Annotator, error) {
	switch cfg.Provider {
	case "", "lexicon":
		return NewLexicon(), nil
	case "remote":
		return NewRemote(cfg)
	default:
		return nil, fmt.Errorf("unknown NLP provider: %q", cfg.Provider)
	}
}
