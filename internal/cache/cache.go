// Package cache persists resolved media items in SQLite so repeated
// lookups of the same content id skip the network. The extraction core
// never touches it; only the CLI layer reads and writes here.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"svtdl/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolved (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at INTEGER NOT NULL
);`

// Store is a SQLite-backed cache of resolved items.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached item for id if one exists and is younger than
// ttl. Live items are never served from cache; their manifests go
// stale immediately.
func (s *Store) Get(id string, ttl time.Duration) (*media.Item, bool, error) {
	var (
		payload   string
		fetchedAt int64
	)
	err := s.db.QueryRow(
		`SELECT payload, fetched_at FROM resolved WHERE id = ?`, id,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	if time.Since(time.Unix(fetchedAt, 0)) > ttl {
		return nil, false, nil
	}

	var item media.Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		// Corrupt row; treat as a miss rather than failing the lookup.
		return nil, false, nil
	}
	if item.IsLive {
		return nil, false, nil
	}
	return &item, true, nil
}

// Put stores or refreshes the cached item.
func (s *Store) Put(item *media.Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO resolved (id, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		item.ID, string(payload), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// Purge drops every cached entry.
func (s *Store) Purge() error {
	if _, err := s.db.Exec(`DELETE FROM resolved`); err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}
