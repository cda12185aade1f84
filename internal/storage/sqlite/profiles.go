package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/pkg/log"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) SaveSnapshot(ctx context.Context, userID string, snap core.ProfileSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal profile snapshot: %w", err)
	}

	query := `INSERT INTO profiles (user_id, snapshot, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.ExecContext(ctx, query, userID, string(data)); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("user_id", userID).Msg("saved profile snapshot")
	return nil
}

// LoadSnapshot returns a zero-valued snapshot for unknown users; a fresh
// profile is not an error.
func (r *ProfilesRepo) LoadSnapshot(ctx context.Context, userID string) (core.ProfileSnapshot, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT snapshot FROM profiles WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ProfileSnapshot{}, nil
	}
	if err != nil {
		return core.ProfileSnapshot{}, fmt.Errorf("failed to query profile: %w", err)
	}

	var snap core.ProfileSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return core.ProfileSnapshot{}, fmt.Errorf("failed to unmarshal profile snapshot: %w", err)
	}
	return snap, nil
}
