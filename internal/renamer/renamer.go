// Package renamer applies a validated plan to the filesystem.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"chrononame/internal/logging"
	"chrononame/internal/plan"
)

// ErrTargetExists marks an entry whose target name is taken by another file.
var ErrTargetExists = errors.New("target already exists")

// Status is the per-entry result of a rename.
type Status string

const (
	StatusRenamed Status = "renamed"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome reports what happened to one plan entry.
type Outcome struct {
	Entry  plan.Entry `json:"entry"`
	Status Status     `json:"status"`
	Err    error      `json:"-"`
}

// Error returns the failure text, or "" for successful outcomes.
func (o Outcome) Error() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Executor renames plan entries one at a time, in timestamp order. Earlier
// renames are never undone when a later one fails.
//
// An entry whose target is still held by a file that moves later in the plan
// is retried after the main pass. Entries that only block each other, such as
// two files swapping names, keep failing with ErrTargetExists.
type Executor struct {
	logger *slog.Logger
	rename func(oldpath, newpath string) error
}

func New(logger *slog.Logger) *Executor {
	return &Executor{
		logger: logging.NewComponentLogger(logger, "renamer"),
		rename: os.Rename,
	}
}

// Execute renames every entry of p and returns one outcome per entry, in plan
// order.
func (e *Executor) Execute(ctx context.Context, p *plan.Plan) []Outcome {
	entries := p.Entries()
	outcomes := make([]Outcome, len(entries))
	var blocked []int
	for i, entry := range entries {
		outcomes[i] = e.attempt(ctx, entry)
		if errors.Is(outcomes[i].Err, ErrTargetExists) {
			blocked = append(blocked, i)
		}
	}

	// Retry while each pass frees at least one name.
	for len(blocked) > 0 {
		var still []int
		for _, i := range blocked {
			outcomes[i] = e.attempt(ctx, entries[i])
			if errors.Is(outcomes[i].Err, ErrTargetExists) {
				still = append(still, i)
			}
		}
		if len(still) == len(blocked) {
			break
		}
		blocked = still
	}

	for _, o := range outcomes {
		e.log(o)
	}
	return outcomes
}

func (e *Executor) attempt(ctx context.Context, entry plan.Entry) Outcome {
	outcome := Outcome{Entry: entry, Status: StatusRenamed}
	if err := ctx.Err(); err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
	} else if entry.AlreadyNamed() {
		outcome.Status = StatusSkipped
	} else if err := e.apply(entry); err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
	}
	return outcome
}

func (e *Executor) apply(entry plan.Entry) error {
	source := entry.Source.Path
	target := entry.TargetPath()

	srcInfo, err := os.Lstat(source)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if dstInfo, err := os.Lstat(target); err == nil {
		// Case-only renames on case-insensitive filesystems see the source here.
		if !os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat target: %w", err)
	}

	if err := e.rename(source, target); err != nil {
		return fmt.Errorf("rename %s: %w", entry.Source.Name, err)
	}
	return nil
}

func (e *Executor) log(o Outcome) {
	attrs := []any{
		logging.FieldPath, o.Entry.Source.Path,
		logging.FieldTarget, o.Entry.Target,
	}
	switch o.Status {
	case StatusFailed:
		e.logger.Debug("rename failed", append(attrs, logging.Error(o.Err))...)
	case StatusSkipped:
		e.logger.Debug("already named", attrs...)
	default:
		e.logger.Debug("renamed", attrs...)
	}
}

// Counts tallies outcomes by status.
func Counts(outcomes []Outcome) (renamed, skipped, failed int) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusRenamed:
			renamed++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return renamed, skipped, failed
}
