package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns the LLM event log backed by this store.
func (s *Store) EventRepo() *EventLog {
	return &EventLog{db: s.db}
}

// TurnRepo returns the practice-session log backed by this store.
func (s *Store) TurnRepo() *TurnLog {
	return &TurnLog{db: s.db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS global_sequence (
		id       INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`,
	`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	`CREATE TABLE IF NOT EXISTS llm_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     DATETIME NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       BOOLEAN NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_sequence ON llm_events(sequence)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		user_name  TEXT NOT NULL DEFAULT '',
		sequence   INTEGER NOT NULL,
		started_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS turns (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		session_id    TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		question_id   TEXT NOT NULL,
		question_text TEXT NOT NULL,
		answer        TEXT NOT NULL,
		clarity       INTEGER NOT NULL,
		structure     INTEGER NOT NULL,
		relevance     INTEGER NOT NULL,
		total         REAL NOT NULL,
		clarified     BOOLEAN NOT NULL DEFAULT 0,
		evaluation    TEXT NOT NULL DEFAULT '{}',
		feedback      TEXT NOT NULL DEFAULT '{}',
		created_at    DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, sequence)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLBRIDGE_DB environment variable
// 2. $XDG_DATA_HOME/skillbridge/skillbridge.db
// 3. ~/.local/share/skillbridge/skillbridge.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLBRIDGE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skillbridge", "skillbridge.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
