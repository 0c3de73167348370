// Package history keeps an optional journal of tool invocations in SQLite.
//
// The journal is write-mostly and never consulted while resolving a
// prompt, so enabling it cannot change what any tool returns. It exists
// to answer "which prompts are agents actually pulling, and from where".
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one recorded tool invocation.
type Entry struct {
	ID         string `json:"id"`
	Tool       string `json:"tool"`
	Template   string `json:"template,omitempty"`
	Source     string `json:"source,omitempty"`
	Lines      int    `json:"lines"`
	OverLimit  bool   `json:"over_limit"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// Count aggregates invocations per tool and source.
type Count struct {
	Tool        string `json:"tool"`
	Source      string `json:"source"`
	Invocations int    `json:"invocations"`
	Errors      int    `json:"errors"`
}

// Config holds store configuration.
type Config struct {
	Path string
	// MaxEntries caps the journal; older rows are pruned. Zero keeps all.
	MaxEntries int
}

// DefaultMaxEntries bounds the journal when the caller does not.
const DefaultMaxEntries = 5000

// Store is the SQLite-backed journal.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New opens (and migrates) the journal at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT    NOT NULL UNIQUE,
			tool        TEXT    NOT NULL,
			template    TEXT    NOT NULL DEFAULT '',
			source      TEXT    NOT NULL DEFAULT '',
			lines       INTEGER NOT NULL DEFAULT 0,
			over_limit  INTEGER NOT NULL DEFAULT 0,
			error       TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_inv_tool    ON invocations(tool);
		CREATE INDEX IF NOT EXISTS idx_inv_created ON invocations(created_at DESC);
	`)
	return err
}

// Record appends an entry. ID and CreatedAt are filled in when empty.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.Tool == "" {
		return fmt.Errorf("history: entry has no tool")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}

	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, tool, template, source, lines, over_limit, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tool, e.Template, e.Source, e.Lines, e.OverLimit, errText, e.DurationMS, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}

	return s.prune(ctx)
}

func (s *Store) prune(ctx context.Context) error {
	limit := s.cfg.MaxEntries
	if limit <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM invocations WHERE seq <= (SELECT MAX(seq) FROM invocations) - ?`, limit)
	if err != nil {
		return fmt.Errorf("history: prune: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, template, source, lines, over_limit, error, duration_ms, created_at
		 FROM invocations ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var errText sql.NullString
		if err := rows.Scan(&e.ID, &e.Tool, &e.Template, &e.Source, &e.Lines,
			&e.OverLimit, &errText, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Error = errText.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// Counts returns invocation totals grouped by tool and source.
func (s *Store) Counts(ctx context.Context) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tool, source, COUNT(*), SUM(CASE WHEN error IS NOT NULL THEN 1 ELSE 0 END)
		 FROM invocations GROUP BY tool, source ORDER BY tool, source`)
	if err != nil {
		return nil, fmt.Errorf("history: counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Tool, &c.Source, &c.Invocations, &c.Errors); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
