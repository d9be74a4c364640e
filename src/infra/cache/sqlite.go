package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/contre95/soullyrics/src/features/lyrics"
	"github.com/contre95/soullyrics/src/music"
	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "cache.db"

// SqliteStore is a directory-backed lyrics.Store. Recreate deletes the whole
// directory, so it must not hold anything else.
type SqliteStore struct {
	dir string
	now func() time.Time

	mu sync.RWMutex
	db *sql.DB
}

// Option configures a SqliteStore.
type Option func(*SqliteStore)

// WithClock overrides the clock used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *SqliteStore) { s.now = now }
}

// NewSqliteStore opens or creates the cache database inside dir.
func NewSqliteStore(dir string, opts ...Option) (*SqliteStore, error) {
	s := &SqliteStore{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	db, err := open(dir)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

func open(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache tables: %w", err)
	}
	return db, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lyrics_cache (
			key TEXT PRIMARY KEY,
			lyrics TEXT NOT NULL,
			url TEXT NOT NULL,
			service TEXT NOT NULL,
			timed BOOLEAN NOT NULL DEFAULT FALSE,
			cursor INTEGER NOT NULL DEFAULT -1,
			expires_at INTEGER NOT NULL
		);
	`)
	return err
}

// Get returns the live entry for key. Expired rows are deleted and reported as missing.
func (s *SqliteStore) Get(key string) (lyrics.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry     lyrics.Entry
		cursor    int
		expiresAt int64
	)
	err := s.db.QueryRow(
		`SELECT lyrics, url, service, timed, cursor, expires_at FROM lyrics_cache WHERE key = ?`, key,
	).Scan(&entry.Result.Lyrics, &entry.Result.URL, &entry.Result.Service, &entry.Result.Timed, &cursor, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return lyrics.Entry{}, false, nil
	}
	if err != nil {
		return lyrics.Entry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if s.now().Unix() >= expiresAt {
		if _, err := s.db.Exec(`DELETE FROM lyrics_cache WHERE key = ?`, key); err != nil {
			slog.Debug("Failed to delete expired cache entry", "key", key, "error", err)
		}
		return lyrics.Entry{}, false, nil
	}

	entry.Cursor = music.Cursor(cursor)
	return entry, true, nil
}

// Set inserts or replaces the entry for key.
func (s *SqliteStore) Set(key string, entry lyrics.Entry, ttl time.Duration) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.db.Exec(`
		INSERT INTO lyrics_cache (key, lyrics, url, service, timed, cursor, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			lyrics = excluded.lyrics,
			url = excluded.url,
			service = excluded.service,
			timed = excluded.timed,
			cursor = excluded.cursor,
			expires_at = excluded.expires_at
	`, key, entry.Result.Lyrics, entry.Result.URL, entry.Result.Service, entry.Result.Timed, int(entry.Cursor), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Recreate closes the database, deletes the cache directory and starts over empty.
func (s *SqliteStore) Recreate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("Failed to close cache database before recreation", "error", err)
		}
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove cache directory %s: %w", s.dir, err)
	}
	db, err := open(s.dir)
	if err != nil {
		return err
	}
	s.db = db
	slog.Info("Lyrics cache recreated", "dir", s.dir)
	return nil
}

// Len counts the stored rows, expired ones included.
func (s *SqliteStore) Len() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM lyrics_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
