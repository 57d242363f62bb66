package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a run ID is not in the journal.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when a run ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusAborted   = "aborted"
	StatusDeclined  = "declined"
)

// Run summarizes one invocation against a directory.
type Run struct {
	ID         string    `json:"id"`
	Directory  string    `json:"directory"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Renamed    int       `json:"renamed"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Warnings   int       `json:"warnings"`
	Status     string    `json:"status"`
	Renames    []Rename  `json:"renames,omitempty"`
}

// Rename is one attempted rename within a run.
type Rename struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Timestamp string `json:"timestamp"`
	Origin    string `json:"origin,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// RecordRun stores run and its renames in one transaction.
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("record run: missing id")
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin run tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, directory, started_at, finished_at, renamed, skipped, failed, warnings, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Directory,
			run.StartedAt.UTC().Format(time.RFC3339Nano),
			run.FinishedAt.UTC().Format(time.RFC3339Nano),
			run.Renamed,
			run.Skipped,
			run.Failed,
			run.Warnings,
			run.Status,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, r := range run.Renames {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO renames (run_id, source, target, timestamp, origin, status, error)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				run.ID, r.Source, r.Target, r.Timestamp, r.Origin, r.Status, r.Error,
			); err != nil {
				return fmt.Errorf("insert rename %s: %w", r.Source, err)
			}
		}
		return tx.Commit()
	})
}

// ListRuns returns the most recent runs, newest first, without their renames.
// A limit <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, directory, started_at, finished_at, renamed, skipped, failed, warnings, status
		FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its renames in the order they were executed. id
// may be any unique prefix of the run ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	id, err := s.resolveID(ctx, id)
	if err != nil {
		return Run{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, directory, started_at, finished_at, renamed, skipped, failed, warnings, status
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, target, timestamp, origin, status, error
		 FROM renames WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return Run{}, fmt.Errorf("list renames: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r Rename
		if err := rows.Scan(&r.Source, &r.Target, &r.Timestamp, &r.Origin, &r.Status, &r.Error); err != nil {
			return Run{}, fmt.Errorf("scan rename: %w", err)
		}
		run.Renames = append(run.Renames, r)
	}
	return run, rows.Err()
}

func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2", len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("lookup run: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
	)
	if err := row.Scan(&run.ID, &run.Directory, &started, &finished,
		&run.Renamed, &run.Skipped, &run.Failed, &run.Warnings, &run.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return run, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
