package workflow

import (
	"time"

	"chrononame/internal/confirm"
	"chrononame/internal/history"
	"chrononame/internal/plan"
	"chrononame/internal/renamer"
)

// Warning kinds for files left out of the plan.
const (
	WarningUnreadable  = "unreadable_entry"
	WarningUnsupported = "unsupported_extension"
	WarningUnresolved  = "unresolved"
)

// Report describes a planned or executed batch.
type Report struct {
	RunID      string            `json:"run_id,omitempty"`
	Directory  string            `json:"directory"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Files      int               `json:"files"`
	Entries    []plan.Entry      `json:"entries"`
	Warnings   []confirm.Warning `json:"warnings"`
	Collisions []plan.Collision  `json:"collisions"`
	Outcomes   []renamer.Outcome `json:"outcomes,omitempty"`
	Status     string            `json:"status"`
}

// NeedsConfirmation reports whether any file was left out of the plan.
func (r *Report) NeedsConfirmation() bool {
	return len(r.Warnings) > 0
}

// Aborted reports whether collisions blocked the run.
func (r *Report) Aborted() bool {
	return len(r.Collisions) > 0
}

// Counts tallies executed outcomes.
func (r *Report) Counts() (renamed, skipped, failed int) {
	return renamer.Counts(r.Outcomes)
}

func (r *Report) historyRun() history.Run {
	renamed, skipped, failed := r.Counts()
	run := history.Run{
		ID:         r.RunID,
		Directory:  r.Directory,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Renamed:    renamed,
		Skipped:    skipped,
		Failed:     failed,
		Warnings:   len(r.Warnings),
		Status:     r.Status,
	}
	for _, o := range r.Outcomes {
		run.Renames = append(run.Renames, history.Rename{
			Source:    o.Entry.Source.Path,
			Target:    o.Entry.Target,
			Timestamp: string(o.Entry.Timestamp),
			Origin:    o.Entry.Origin,
			Status:    string(o.Status),
			Error:     o.Error(),
		})
	}
	return run
}
