package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	topicsJSON, err := json.Marshal(msg.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}

	// Empty topic lists marshal to "null"; store as empty string to save space
	topicsStr := string(topicsJSON)
	if topicsStr == "null" {
		topicsStr = ""
	}

	query := `INSERT INTO messages (session_id, role, content, sentiment, topics) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, sessionID, msg.Role, msg.Content, msg.Sentiment, topicsStr)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT role, content, sentiment, topics FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		var content, topicsStr sql.NullString

		// Use NullString to safely handle potential NULLs in DB
		if err := rows.Scan(&msg.Role, &content, &msg.Sentiment, &topicsStr); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		msg.Content = content.String

		if topicsStr.Valid && topicsStr.String != "" && topicsStr.String != "null" {
			if err := json.Unmarshal([]byte(topicsStr.String), &msg.Topics); err != nil {
				return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
			}
		}

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned messages in Reverse Chronological Order (Newest -> Oldest).
	// Reverse them back to Chronological Order (Oldest -> Newest) for callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}
