package agent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// historyLimit caps how many messages are kept per user; older ones are
// trimmed so the prompt stays bounded.
const historyLimit = 20

type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// HistoryStore keeps per-user conversation history in a local SQLite
// file, which survives across requests in /tmp-style deployments.
type HistoryStore struct {
	db *sql.DB
}

func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS messages_user_idx ON messages (user_id, id);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Append stores a message and trims the user's history to historyLimit.
func (h *HistoryStore) Append(ctx context.Context, userID, role, content string) error {
	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO messages (user_id, role, content) VALUES (?, ?, ?)
	`, userID, role, content); err != nil {
		return err
	}
	_, err := h.db.ExecContext(ctx, `
		DELETE FROM messages
		WHERE user_id = ? AND id NOT IN (
			SELECT id FROM messages WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)
	`, userID, userID, historyLimit)
	return err
}

// Recent returns the user's messages oldest first.
func (h *HistoryStore) Recent(ctx context.Context, userID string) ([]Message, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT role, content, created_at FROM messages
		WHERE user_id = ? ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Clear drops one user's history.
func (h *HistoryStore) Clear(ctx context.Context, userID string) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM messages WHERE user_id = ?`, userID)
	return err
}
