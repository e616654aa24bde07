// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage caches fetched chat history locally so the history list
// renders instantly on startup and survives the backend being down.
//
// The backend owns every session; the cache is read-mostly and is replaced
// wholesale on each successful history fetch. Nothing is ever deleted
// client-side except by mirroring server state.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/medchat/medchat-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("session not found in cache")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

// SchemaVersion tracks the database schema version for migrations
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Sessions mirror the backend's history items. Messages are stored as a
-- JSON blob; the cache never queries inside a conversation.
CREATE TABLE IF NOT EXISTS sessions (
    chat_id TEXT PRIMARY KEY,
    messages TEXT NOT NULL,
    timestamp INTEGER NOT NULL,  -- Unix nanoseconds UTC
    cached_at INTEGER NOT NULL   -- Unix timestamp
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_sessions_timestamp ON sessions(timestamp DESC);
`

const initMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`

// =============================================================================
// CACHE
// =============================================================================

// Cache is a local SQLite mirror of the backend's chat history.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the history cache at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// RELIABILITY: WAL mode tolerates the process dying mid-write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", ErrDatabaseError, err)
	}
	if _, err := db.Exec(initMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to init metadata: %v", ErrDatabaseError, err)
	}

	return &Cache{db: db}, nil
}

// DefaultPath returns the cache location under the medchat data directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".medchat", "history.db"), nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Replace atomically swaps the cached history for the given sessions. Called
// after every successful history fetch so the cache mirrors server state,
// including server-side deletions.
func (c *Cache) Replace(ctx context.Context, sessions []model.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	now := time.Now().Unix()
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO sessions (chat_id, messages, timestamp, cached_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, s := range sessions {
		blob, err := json.Marshal(s.Messages)
		if err != nil {
			return fmt.Errorf("failed to encode messages for %s: %w", s.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.ID, string(blob), s.Timestamp.UnixNano(), now); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// List returns every cached session, most recent first.
func (c *Cache) List(ctx context.Context) ([]model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.QueryContext(ctx,
		"SELECT chat_id, messages, timestamp FROM sessions ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var (
			id    string
			blob  string
			nanos int64
		)
		if err := rows.Scan(&id, &blob, &nanos); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}

		var messages []model.Message
		if err := json.Unmarshal([]byte(blob), &messages); err != nil {
			// A corrupt row degrades to an empty conversation rather than
			// failing the whole listing.
			messages = nil
		}
		sessions = append(sessions, model.Session{
			ID:        id,
			Messages:  messages,
			Timestamp: time.Unix(0, nanos).UTC(),
		})
	}
	return sessions, rows.Err()
}

// Get returns one cached session by id.
func (c *Cache) Get(ctx context.Context, id string) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		blob  string
		nanos int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT messages, timestamp FROM sessions WHERE chat_id = ?", id).
		Scan(&blob, &nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(blob), &messages); err != nil {
		messages = nil
	}
	return &model.Session{
		ID:        id,
		Messages:  messages,
		Timestamp: time.Unix(0, nanos).UTC(),
	}, nil
}

// Count returns the number of cached sessions.
func (c *Cache) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// Clear empties the cache. Called on logout so one user's medical history
// never leaks into another account's view on a shared machine.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, "DELETE FROM sessions"); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}
