// Package history persists chat sessions so research conversations can be
// reviewed and resumed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

type Session struct {
	ID        string
	Title     string
	CreatedAt string
	UpdatedAt string
}

type Message struct {
	SessionID string
	Role      string
	Content   string
	Seq       int
	CreatedAt string
}

// Open creates or opens the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("history: db path is required")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("history: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    seq INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, seq)
);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// StartSession creates a session. The title is taken from the first user
// message, truncated for display.
func (s *Store) StartSession(ctx context.Context, id, title string) error {
	if len(title) > 80 {
		title = title[:80]
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, title) VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET updated_at=CURRENT_TIMESTAMP
`, id, title)
	if err != nil {
		return fmt.Errorf("history: insert session: %w", err)
	}
	return nil
}

// AppendMessage stores one turn. Seq numbers a session's messages from 1.
func (s *Store) AppendMessage(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.Role) == "" {
		return fmt.Errorf("history: message role is required")
	}
	if msg.Seq <= 0 {
		return fmt.Errorf("history: message seq must be positive")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (session_id, role, content, seq) VALUES (?, ?, ?, ?)
`, msg.SessionID, msg.Role, msg.Content, msg.Seq)
	if err != nil {
		return fmt.Errorf("history: insert message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at=CURRENT_TIMESTAMP WHERE id = ?`, msg.SessionID)
	if err != nil {
		return fmt.Errorf("history: touch session: %w", err)
	}
	return nil
}

// ListSessions returns sessions ordered newest first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, created_at, updated_at
FROM sessions
ORDER BY updated_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("history: scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Messages returns a session's messages in order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, role, content, seq, created_at
FROM messages
WHERE session_id = ?
ORDER BY seq
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("history: list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.SessionID, &msg.Role, &msg.Content, &msg.Seq, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteSession removes a session and its messages.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("history: delete session: %w", err)
	}
	return nil
}

// NewSessionID derives a sortable session id from the current time.
func NewSessionID() string {
	return time.Now().UTC().Format("20060102T150405.000000000")
}
