package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"reel/internal/config"
	"reel/internal/session"
)

// Entry is one finished request. Only request metadata is recorded, never
// produced media.
type Entry struct {
	ID         int64
	Key        string
	Kind       string
	Platform   string
	Quality    string
	Format     string
	State      session.State
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store persists the request ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
	keep int
}

const schema = `
CREATE TABLE IF NOT EXISTS history_entries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_key TEXT NOT NULL,
    kind TEXT NOT NULL,
    platform TEXT NOT NULL DEFAULT '',
    quality TEXT NOT NULL DEFAULT '',
    format TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_finished_at ON history_entries(finished_at DESC);
`

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	keep := cfg.History.KeepEntries
	if keep <= 0 {
		keep = 500
	}
	return &Store{db: db, path: dbPath, keep: keep}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database location.
func (s *Store) Path() string {
	return s.path
}

// Record appends an entry and prunes the ledger to its retention limit.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("record history: empty session key")
	}
	started := entry.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	finished := entry.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history_entries (
            session_key, kind, platform, quality, format, state, detail,
            started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Key,
		entry.Kind,
		entry.Platform,
		entry.Quality,
		entry.Format,
		string(entry.State),
		entry.Detail,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return s.prune(ctx)
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > s.keep {
		limit = s.keep
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_key, kind, platform, quality, format, state, detail,
                started_at, finished_at
         FROM history_entries
         ORDER BY id DESC
         LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var state, started, finished string
		if err := rows.Scan(
			&entry.ID, &entry.Key, &entry.Kind, &entry.Platform,
			&entry.Quality, &entry.Format, &state, &entry.Detail,
			&started, &finished,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entry.State = session.State(state)
		entry.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		entry.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM history_entries
         WHERE id NOT IN (
             SELECT id FROM history_entries ORDER BY id DESC LIMIT ?
         )`, s.keep)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}
