// Package journal records change-detection runs in a local SQLite file so
// a later run can ask for everything since the previous one.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checks (
    id           TEXT PRIMARY KEY,
    checked_at   TEXT NOT NULL,
    change_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS changes (
    check_id    TEXT NOT NULL REFERENCES checks(id),
    path        TEXT NOT NULL,
    change_type TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    size_bytes  INTEGER NOT NULL DEFAULT 0,
    workstreams TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS changes_check ON changes(check_id);
`

// timeFormat sorts lexically, unlike RFC3339Nano which trims zeros.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Change is one file event stored with a check.
type Change struct {
	Path        string
	Type        string
	ModifiedAt  time.Time
	Size        int64
	Workstreams []string
}

// Check is one recorded detection run.
type Check struct {
	ID        string
	CheckedAt time.Time
	Changes   int
}

// Journal is an open journal database.
type Journal struct {
	db *sql.DB
}

var openDB = sql.Open

// Open opens or creates the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Busy timeout covers a monitor and a one-shot check running at once.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// RecordCheck stores a detection run at `at` with its changes and returns
// the new check ID.
func (j *Journal) RecordCheck(ctx context.Context, at time.Time, changes []Change) (string, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("journal: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO checks (id, checked_at, change_count) VALUES (?, ?, ?)",
		id, at.UTC().Format(timeFormat), len(changes)); err != nil {
		return "", fmt.Errorf("journal: insert check: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO changes (check_id, path, change_type, modified_at, size_bytes, workstreams)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("journal: prepare change insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range changes {
		if _, err := stmt.ExecContext(ctx, id, c.Path, c.Type,
			c.ModifiedAt.UTC().Format(timeFormat), c.Size, strings.Join(c.Workstreams, ",")); err != nil {
			return "", fmt.Errorf("journal: insert change %s: %w", c.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("journal: commit: %w", err)
	}
	return id, nil
}

// LastCheck returns the most recent check, or nil when none was recorded.
func (j *Journal) LastCheck(ctx context.Context) (*Check, error) {
	var c Check
	var at string
	err := j.db.QueryRowContext(ctx,
		"SELECT id, checked_at, change_count FROM checks ORDER BY checked_at DESC LIMIT 1").
		Scan(&c.ID, &at, &c.Changes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: last check: %w", err)
	}
	if c.CheckedAt, err = time.Parse(timeFormat, at); err != nil {
		return nil, fmt.Errorf("journal: check %s: %w", c.ID, err)
	}
	return &c, nil
}

// Checks returns up to limit checks, newest first.
func (j *Journal) Checks(ctx context.Context, limit int) ([]Check, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, checked_at, change_count FROM checks ORDER BY checked_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list checks: %w", err)
	}
	defer rows.Close()

	var out []Check
	for rows.Next() {
		var c Check
		var at string
		if err := rows.Scan(&c.ID, &at, &c.Changes); err != nil {
			return nil, fmt.Errorf("journal: scan check: %w", err)
		}
		if c.CheckedAt, err = time.Parse(timeFormat, at); err != nil {
			return nil, fmt.Errorf("journal: check %s: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Changes returns the changes stored with a check, in insertion order.
func (j *Journal) Changes(ctx context.Context, checkID string) ([]Change, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT path, change_type, modified_at, size_bytes, workstreams
		FROM changes WHERE check_id = ? ORDER BY rowid`, checkID)
	if err != nil {
		return nil, fmt.Errorf("journal: list changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		var at, ws string
		if err := rows.Scan(&c.Path, &c.Type, &at, &c.Size, &ws); err != nil {
			return nil, fmt.Errorf("journal: scan change: %w", err)
		}
		if c.ModifiedAt, err = time.Parse(timeFormat, at); err != nil {
			return nil, fmt.Errorf("journal: change %s: %w", c.Path, err)
		}
		if ws != "" {
			c.Workstreams = strings.Split(ws, ",")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
