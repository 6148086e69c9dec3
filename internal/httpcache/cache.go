// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpcache keeps GovInfo responses in a local SQLite database so a
// repeated query inside the expiry window costs no API quota.
package httpcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/govinfo-table/pkg/types"
)

// DefaultExpireAfter is used when the config leaves the expiry unset.
const DefaultExpireAfter = 180 * time.Second

// MemoryPath selects an in-process database.
const MemoryPath = ":memory:"

// excludedParams never take part in the cache key.
var excludedParams = []string{"api_key"}

// Cache is a response store with a fixed expiry.
type Cache struct {
	db          *sql.DB
	path        string
	expireAfter time.Duration
	now         func() time.Time
}

// Stats summarises the cache contents.
type Stats struct {
	Path    string    `json:"path" yaml:"path"`
	Entries int       `json:"entries" yaml:"entries"`
	Expired int       `json:"expired" yaml:"expired"`
	Bytes   int64     `json:"bytes" yaml:"bytes"`
	Oldest  time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}

// Open opens or creates the cache database at cfg.Path.
func Open(cfg types.CacheConfig) (*Cache, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("cache path is empty")
	}

	dsn := MemoryPath
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating cache directory: %w", err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// sqlite serialises writers anyway.
	db.SetMaxOpenConns(1)

	expire := cfg.ExpireAfter
	if expire <= 0 {
		expire = DefaultExpireAfter
	}

	c := &Cache{db: db, path: path, expireAfter: expire, now: time.Now}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS responses (
			key TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			body BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_expires_at ON responses(expires_at)`,
	}
	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Key returns the display form of a request as the cache sees it: the URL
// with sorted parameters, secrets removed.
func Key(rawURL string, params url.Values) string {
	kept := url.Values{}
	for k, v := range params {
		kept[k] = v
	}
	for _, k := range excludedParams {
		kept.Del(k)
	}
	if len(kept) == 0 {
		return rawURL
	}
	return rawURL + "?" + kept.Encode()
}

func hashKey(display string) string {
	sum := sha256.Sum256([]byte(display))
	return hex.EncodeToString(sum[:])
}

// Get returns the body stored for the request if it has not expired.
func (c *Cache) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, bool, error) {
	var (
		body      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM responses WHERE key = ?`,
		hashKey(Key(rawURL, params)),
	).Scan(&body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if c.now().UnixNano() >= expiresAt {
		return nil, false, nil
	}
	return body, true, nil
}

// Put stores body for the request, replacing any earlier entry.
func (c *Cache) Put(ctx context.Context, rawURL string, params url.Values, body []byte) error {
	display := Key(rawURL, params)
	now := c.now()
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, url, body, created_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		hashKey(display), display, body, now.UnixNano(), now.Add(c.expireAfter).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports entry counts and sizes.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	s := Stats{Path: c.path}

	var oldest, newest sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		`SELECT count(*),
			coalesce(sum(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0),
			coalesce(sum(length(body)), 0),
			min(created_at),
			max(created_at)
		FROM responses`,
		c.now().UnixNano(),
	).Scan(&s.Entries, &s.Expired, &s.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	if oldest.Valid {
		s.Oldest = time.Unix(0, oldest.Int64).UTC()
	}
	if newest.Valid {
		s.Newest = time.Unix(0, newest.Int64).UTC()
	}
	return s, nil
}
