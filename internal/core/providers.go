package core

import "context"

// Annotator is the external NLP collaborator. Implementations must be safe for
// concurrent use; the engine blocks on Annotate before touching session state.
type Annotator interface {
	Annotate(ctx context.Context, text string) (Annotation, error)
}

// TemplateStore resolves candidate response strings by (mode, intent). An
// empty result means the caller should fall back to its own defaults.
type TemplateStore interface {
	Lookup(mode, intent string) []string
}
