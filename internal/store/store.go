package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/devrimk/punchcard/internal/domain"
)

const currentVersion = 1

// Store is the single source of truth for time entries: the completed list
// plus at most one in-progress (active) entry. All reads and writes go
// through the in-memory state; SQLite is a write-through snapshot loaded at
// startup so completed entries survive restarts. The active slot is not
// persisted — an in-progress timer dies with the process.
type Store struct {
	mu sync.Mutex
	db *sql.DB

	entries []domain.TimeEntry
	active  *domain.TimeEntry

	now   func() time.Time
	newID func() string
}

// Option configures a Store at open time.
type Option func(*Store)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the ID generator, for tests that want stable IDs.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open opens (or creates) the SQLite snapshot at dbPath, runs migrations and
// loads the completed entries into memory.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.loadEntries(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return s, nil
}

// OpenMemory creates an in-memory store for testing.
func OpenMemory(opts ...Option) (*Store, error) {
	return Open(":memory:", opts...)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS time_entries (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		date         TEXT NOT NULL,
		start_time   TEXT,
		end_time     TEXT,
		duration     INTEGER NOT NULL DEFAULT 0,
		manual_entry INTEGER NOT NULL DEFAULT 0,
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user ON time_entries(user_id);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON time_entries(date);

	CREATE TABLE IF NOT EXISTS users (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'intern'
	);

	INSERT OR IGNORE INTO users (id, name, role) VALUES
		('admin', 'Meltem Oz',   'admin'),
		('i-ada', 'Ada Kaplan',  'intern'),
		('i-den', 'Deniz Acar',  'intern'),
		('i-sel', 'Selin Yurt',  'intern'),
		('i-bar', 'Baris Demir', 'intern');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns the snapshot location, honoring PUNCHCARD_DB.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PUNCHCARD_DB"); p != "" {
		return p, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "punchcard", "punchcard.db"), nil
}
