// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists highlight-run records in a SQLite database
// so past runs and their unresolved quotes can be reviewed later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/franmgl2001/case-highlighter/pkg/types"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded highlight run.
type Run struct {
	ID         int64
	Input      string
	Output     string
	Total      int
	Resolved   int
	Unresolved []types.Unresolved
	Timestamp  time.Time
}

// NewStore opens or creates the history database at dbPath, creating
// parent directories and the schema as needed.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			total INTEGER NOT NULL,
			resolved INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS unresolved (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			page INTEGER NOT NULL,
			quote TEXT NOT NULL,
			reason TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_unresolved_run_id ON unresolved(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one run and its unresolved entries in a single
// transaction.
func (s *Store) RecordRun(ctx context.Context, input, output string, report types.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (input, output, total, resolved, timestamp) VALUES (?, ?, ?, ?, ?)`,
		input, output, report.Total, report.Resolved,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, u := range report.Unresolved {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO unresolved (run_id, idx, page, quote, reason) VALUES (?, ?, ?, ?, ?)`,
			runID, u.Index, u.Page, u.Quote, string(u.Reason)); err != nil {
			return 0, fmt.Errorf("inserting unresolved entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first, including their
// unresolved entries. limit <= 0 selects the default of 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input, output, total, resolved, timestamp
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.Input, &r.Output, &r.Total, &r.Resolved, &ts); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		if err := s.loadUnresolved(ctx, &runs[i]); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) loadUnresolved(ctx context.Context, r *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, page, quote, reason FROM unresolved WHERE run_id = ? ORDER BY idx`, r.ID)
	if err != nil {
		return fmt.Errorf("querying unresolved entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u types.Unresolved
		var reason string
		if err := rows.Scan(&u.Index, &u.Page, &u.Quote, &reason); err != nil {
			return fmt.Errorf("scanning unresolved entry: %w", err)
		}
		u.Reason = types.UnresolvedReason(reason)
		r.Unresolved = append(r.Unresolved, u)
	}
	return rows.Err()
}
