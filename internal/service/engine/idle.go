package engine

import (
	"context"
	"time"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/pkg/log"
)

// Start runs the idle watcher: sessions with no traffic for the configured
// timeout are moved to the idle state. This is the only transition into idle.
// Implements the srv.Service lifecycle.
func (e *Engine) Start(ctx context.Context) error {
	timeout := time.Duration(e.cfg.IdleTimeoutSeconds) * time.Second
	if timeout <= 0 {
		return nil
	}

	ticker := time.NewTicker(timeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			e.markIdleSessions(ctx, timeout)
		}
	}
}

func (e *Engine) Shutdown(ctx context.Context) error {
	return nil
}

func (e *Engine) markIdleSessions(ctx context.Context, timeout time.Duration) {
	e.mu.Lock()
	sessions := make([]*Session, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.mu.Unlock()

	cutoff := time.Now().Add(-timeout)
	for _, s := range sessions {
		s.mu.Lock()
		if s.conv.State != core.StateIdle && !s.lastActivity.IsZero() && s.lastActivity.Before(cutoff) {
			s.conv.State = core.StateIdle
			log.FromCtx(ctx).Debug().Str("session", s.id).Msg("session marked idle")
		}
		s.mu.Unlock()
	}
}
