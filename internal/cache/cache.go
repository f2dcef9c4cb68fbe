// Package cache provides a SQLite-backed TTL cache for provider responses.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_expires ON cache(expires_at);
`

// Cache stores JSON-encoded values with per-entry expiry.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the cache database at path.
func New(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get unmarshals the cached value for key into dest. It returns false when
// the key is absent or expired; expired rows are deleted on read.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	var value string
	var expiresAt float64
	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if float64(c.now().UnixNano())/1e9 > expiresAt {
		if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
			return false, fmt.Errorf("cache evict %s: %w", key, err)
		}
		return false, nil
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key with the given TTL, replacing any existing entry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	expiresAt := float64(c.now().Add(ttl).UnixNano()) / 1e9
	_, err = c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO cache (key, value, expires_at) VALUES (?, ?, ?)",
		key, string(encoded), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// ClearExpired removes all expired entries and returns the number deleted.
func (c *Cache) ClearExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM cache WHERE expires_at < ?",
		float64(c.now().UnixNano())/1e9,
	)
	if err != nil {
		return 0, fmt.Errorf("cache clear expired: %w", err)
	}
	return res.RowsAffected()
}

// GetOrFetch returns the cached value for key, or calls fetch and caches its
// result for ttl. Cache read and write failures fall through to fetch so a
// broken cache degrades to uncached operation.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		if hit, err := c.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	data, err := fetch(ctx)
	if err != nil {
		return data, err
	}

	if c != nil {
		_ = c.Set(ctx, key, data, ttl)
	}
	return data, nil
}
