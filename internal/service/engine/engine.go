package engine

import (
	"context"
	"sync"
	"time"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/service/conversation"
	"github.com/conversify/conversify/internal/service/profile"
	"github.com/conversify/conversify/internal/service/responder"
	"github.com/conversify/conversify/pkg/log"
)

// Session owns the per-conversation state. All message processing for one
// session runs under its mutex; independent sessions proceed in parallel.
type Session struct {
	mu           sync.Mutex
	id           string
	conv         *conversation.Context
	prof         *profile.Profile
	hydrated     bool
	lastActivity time.Time
}

// Engine drives the fixed pipeline for every inbound text: annotate, apply the
// state transition, accumulate into context and profile, then generate. The
// ordering matters: the transition reads the fresh intent, and the strategy
// generating the reply must already see the current message in context and
// profile, not just prior history.
type Engine struct {
	cfg       *config.AppConfig
	annotator core.Annotator
	generator *responder.Generator
	repo      core.MessagesRepository // optional durable archive
	profiles  core.ProfilesRepository // optional profile persistence

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(cfg *config.AppConfig, annotator core.Annotator, generator *responder.Generator, repo core.MessagesRepository) *Engine {
	return &Engine{
		cfg:       cfg,
		annotator: annotator,
		generator: generator,
		repo:      repo,
		sessions:  make(map[string]*Session),
	}
}

// WithProfiles enables durable profile snapshots. Call before serving traffic.
func (e *Engine) WithProfiles(repo core.ProfilesRepository) *Engine {
	e.profiles = repo
	return e
}

func (e *Engine) session(id string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if !ok {
		s = &Session{
			id:   id,
			conv: conversation.New(e.cfg.MaxHistorySize),
			prof: profile.New(),
		}
		e.sessions[id] = s
	}
	return s
}

// Process handles one inbound text for a session and returns the reply.
func (e *Engine) Process(ctx context.Context, sessionID, text string) (string, error) {
	logger := log.FromCtx(ctx)

	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
	e.hydrate(ctx, s)

	msg := core.NewMessage(core.RoleUser, text)
	msg.ContextID = sessionID

	ann, err := e.annotator.Annotate(ctx, text)
	if err != nil {
		// The session must survive a collaborator failure: fall back to a
		// neutral unannotated message rather than recording partial state.
		logger.Warn().Err(err).Str("session", sessionID).Msg("annotation failed, proceeding unannotated")
		ann = core.Annotation{Intent: core.Intent{Primary: "unknown", Confidence: 0.0}}
	}
	msg.Annotate(ann)

	s.conv.State = NextState(s.conv.State, msg.Intent.Primary)
	s.conv.AddMessage(msg)
	s.prof.UpdateFromMessage(msg)

	e.archive(ctx, sessionID, msg)
	e.persistProfile(ctx, s)

	reply := e.generator.Generate(ctx, msg, s.conv, s.prof, e.cfg.Mode)

	replyMsg := core.NewMessage(core.RoleAssistant, reply)
	replyMsg.ContextID = sessionID
	e.archive(ctx, sessionID, replyMsg)

	return reply, nil
}

// hydrate restores a persisted profile on a session's first message. Called
// under the session lock. Persistence failures are logged, not fatal: the
// session just starts from a blank profile.
func (e *Engine) hydrate(ctx context.Context, s *Session) {
	if s.hydrated || e.profiles == nil {
		return
	}
	s.hydrated = true

	snap, err := e.profiles.LoadSnapshot(ctx, s.id)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", s.id).Msg("failed to load profile snapshot")
		return
	}
	if len(snap.ConversationStyle) > 0 {
		s.prof = profile.Restore(snap)
	}
}

func (e *Engine) persistProfile(ctx context.Context, s *Session) {
	if e.profiles == nil {
		return
	}
	if err := e.profiles.SaveSnapshot(ctx, s.id, s.prof.Snapshot()); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", s.id).Msg("failed to save profile snapshot")
	}
}

func (e *Engine) archive(ctx context.Context, sessionID string, msg core.Message) {
	if e.repo == nil {
		return
	}
	if err := e.repo.AddMessage(ctx, sessionID, msg); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("failed to archive message")
	}
}

// NextState applies the intent-driven transition policy. Farewell concludes
// from anywhere; greeting resets to initial from anywhere. Clarifying and idle
// are never assigned here, only through ForceState.
func NextState(current core.ConversationState, intent string) core.ConversationState {
	switch intent {
	case "greeting":
		return core.StateInitial
	case "farewell":
		return core.StateConcluding
	case "question", "clarification":
		return core.StateEngaged
	case "about", "capabilities", "help":
		return core.StateEngaged
	default:
		if current == core.StateInitial {
			return core.StateEngaged
		}
		return current
	}
}

// ForceState sets a session's state outside the transition policy, e.g. idle
// after a timeout or clarifying from an explicit caller decision.
func (e *Engine) ForceState(sessionID string, st core.ConversationState) {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.State = st
}

// State reports a session's current conversation state.
func (e *Engine) State(sessionID string) core.ConversationState {
	s := e.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.State
}
