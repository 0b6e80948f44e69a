// Package cache persists fetched record lists in SQLite and wraps providers
// so repeated drills are served without a network round trip.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lnxknl/aicode-idea-githubRepoViewLikeRanger/internal/nav"
	_ "modernc.org/sqlite"
)

// Store holds record lists keyed by level and locator.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Key builds the cache key for a level's list under locator.
func Key(level, locator string) string {
	return level + "|" + locator
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, now: time.Now, locks: make(map[string]*sync.Mutex)}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS lists (
		key TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		key TEXT NOT NULL,
		position INTEGER NOT NULL,
		locator TEXT NOT NULL,
		label TEXT NOT NULL,
		PRIMARY KEY (key, position)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the list stored under key if it was saved within maxAge. A
// maxAge of zero or less accepts any age. ok is false on a miss.
func (s *Store) Load(ctx context.Context, key string, maxAge time.Duration) (records []nav.Record, ok bool, err error) {
	var fetchedAt int64
	err = s.db.QueryRowContext(ctx, `SELECT fetched_at FROM lists WHERE key = ?`, key).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	if maxAge > 0 && s.now().Sub(time.Unix(0, fetchedAt)) > maxAge {
		return nil, false, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT locator, label
		FROM records
		WHERE key = ?
		ORDER BY position
	`, key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	defer rows.Close()
	for rows.Next() {
		var rec nav.Record
		if err := rows.Scan(&rec.Locator, &rec.Label); err != nil {
			return nil, false, fmt.Errorf("scan %s: %w", key, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return records, true, nil
}

// Save replaces the list stored under key in a single transaction.
func (s *Store) Save(ctx context.Context, key string, records []nav.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (key, position, locator, label)
			VALUES (?, ?, ?, ?)
		`, key, i, rec.Locator, rec.Label); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lists (key, fetched_at) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET fetched_at = excluded.fetched_at
	`, key, s.now().UnixNano()); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// lock serialises writers of the same key and returns the unlock function.
func (s *Store) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}
