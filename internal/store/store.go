package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// Store is a key/value document store over SQLite. Every key holds one JSON
// value. Reads are served from an in-memory cache that always reflects the
// latest Set; writes are single-row upserts, so a reader never observes a
// half-written value.
type Store struct {
	db *sql.DB

	mu    sync.Mutex
	cache map[string]json.RawMessage
	subs  map[string][]func()
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
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
		cache: make(map[string]json.RawMessage),
		subs:  make(map[string][]func()),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := s.loadCache(); err != nil {
		db.Close()
		return nil, fmt.Errorf("load cache: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
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
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// loadCache reads every key into memory once at startup.
func (s *Store) loadCache() error {
	rows, err := s.db.Query(`SELECT key, value FROM kv`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		s.cache[key] = json.RawMessage(value)
	}
	return rows.Err()
}

// GetRaw returns the stored JSON for key, or nil when absent.
func (s *Store) GetRaw(key string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[key]
}

// SetRaw stores raw JSON under key. The cache is updated first so the
// in-memory state stays authoritative even when the durable write fails;
// the write error is still returned for the caller to surface.
func (s *Store) SetRaw(key string, value json.RawMessage) error {
	s.mu.Lock()
	s.cache[key] = value
	subs := append([]func(){}, s.subs[key]...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}

	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Subscribe registers fn to run after every Set of key.
func (s *Store) Subscribe(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[key] = append(s.subs[key], fn)
}

// Get unmarshals the value stored under key into T. A missing or corrupt
// value yields def rather than an error.
func Get[T any](s *Store, key string, def T) T {
	raw := s.GetRaw(key)
	if raw == nil {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Set marshals v and stores it under key.
func Set[T any](s *Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal key %q: %w", key, err)
	}
	return s.SetRaw(key, data)
}

// DefaultDBPath returns ~/.config/taime/taime.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taime", "taime.db"), nil
}
