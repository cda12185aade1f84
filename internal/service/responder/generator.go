package responder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/cache"
	"github.com/conversify/conversify/internal/service/conversation"
	"github.com/conversify/conversify/internal/service/profile"
	"github.com/conversify/conversify/pkg/log"
)

// SafeFallback is returned whenever generation fails internally. The caller
// never sees an error from Generate.
const SafeFallback = "I'm here to help! What would you like to know?"

const namePersonalizationChance = 0.3

type strategy func(msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) string

// Generator turns (message, context, profile) into a reply string. Replies are
// memoized in the shared response cache under (content, mode, state); the key
// deliberately ignores deeper multi-turn context, so distinct turns that agree
// on those three fields share a reply. That fuzziness is accepted, not a bug.
//
// The generator holds no per-session state: remembered names and running
// topics live on the conversation context passed to Generate. Only the cache
// and the random source are shared across sessions.
type Generator struct {
	templates core.TemplateStore
	cache     *cache.ResponseCache

	strategies map[core.ConversationState]strategy

	mu     sync.Mutex // guards rng and titler, neither is concurrency-safe
	rng    *rand.Rand
	now    func() time.Time
	titler cases.Caser
}

type Option func(*Generator)

// WithRandSource fixes the random source, making template picks and name
// personalization deterministic in tests.
func WithRandSource(src rand.Source) Option {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// WithClock overrides the wall clock used for time-of-day greetings.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New builds a generator with a strategy bound to every conversation state.
// A state without a strategy is a programming error and fails construction,
// not dispatch.
func New(templates core.TemplateStore, rc *cache.ResponseCache, opts ...Option) (*Generator, error) {
	g := &Generator{
		templates: templates,
		cache:     rc,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		titler:    cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(g)
	}

	g.strategies = map[core.ConversationState]strategy{
		core.StateInitial:    g.handleInitial,
		core.StateEngaged:    g.handleEngaged,
		core.StateClarifying: g.handleClarifying,
		core.StateConcluding: g.handleConcluding,
		core.StateIdle:       g.handleIdle,
	}
	for _, st := range core.AllStates() {
		if g.strategies[st] == nil {
			return nil, fmt.Errorf("no strategy bound for state %s", st)
		}
	}

	return g, nil
}

// Generate computes the reply for msg in the given session state. Identical
// (content, mode, state) triples always produce identical replies via the
// cache. Any internal failure degrades to SafeFallback.
func (g *Generator) Generate(ctx context.Context, msg core.Message, conv *conversation.Context, prof *profile.Profile, mode string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.FromCtx(ctx).Error().Interface("panic", r).Msg("response generation recovered")
			out = SafeFallback
		}
	}()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Name capture runs before the cache so the introduction is remembered on
	// this session even when the acknowledgment reply itself is a cache hit.
	introduced := false
	if name, ok := g.parseName(msg.Content); ok {
		conv.UserName = name
		introduced = true
	}

	key := cacheKey(msg.Content, mode, conv.State)
	if v, ok := g.cache.Get(key); ok {
		return v
	}

	if introduced {
		resp := fmt.Sprintf("Nice to meet you, %s! How can I help you today?", conv.UserName)
		g.cache.Put(key, resp)
		return resp
	}

	if resp, ok := g.smalltalk(msg.Content); ok {
		g.cache.Put(key, resp)
		return resp
	}

	resp := g.strategies[conv.State](msg, conv, prof, mode)
	resp = g.personalize(conv, resp)
	g.cache.Put(key, resp)
	return resp
}

func cacheKey(content, mode string, state core.ConversationState) string {
	return content + "|" + mode + "|" + state.String()
}

// parseName extracts the title-cased name from a "my name is X" introduction.
func (g *Generator) parseName(content string) (string, bool) {
	lower := strings.ToLower(content)
	idx := strings.LastIndex(lower, "my name is")
	if idx < 0 {
		return "", false
	}

	name := strings.TrimSpace(content[idx+len("my name is"):])
	name = strings.TrimRight(name, ".!?,")
	if name == "" {
		return "", false
	}

	return g.titler.String(name), true
}

// personalize splices the session's remembered name in after "you" about a
// third of the time. Wording is not safety-critical but must be reproducible
// under a fixed random source.
func (g *Generator) personalize(conv *conversation.Context, resp string) string {
	if conv.UserName == "" {
		return resp
	}
	if g.rng.Float64() >= namePersonalizationChance {
		return resp
	}
	return strings.ReplaceAll(resp, "you", "you, "+conv.UserName)
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}
