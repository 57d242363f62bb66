package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"chrononame/internal/config"
	"chrononame/internal/confirm"
	"chrononame/internal/history"
	"chrononame/internal/logging"
	"chrononame/internal/metadata"
	"chrononame/internal/plan"
	"chrononame/internal/preflight"
	"chrononame/internal/renamer"
	"chrononame/internal/resolver"
	"chrononame/internal/runlock"
	"chrononame/internal/scan"
)

var (
	// ErrCollisions is returned when two or more files share a timestamp.
	ErrCollisions = errors.New("timestamp collisions")
	// ErrDeclined is returned when the confirmation gate says no.
	ErrDeclined = errors.New("declined at confirmation")
	// ErrRenameFailures is returned when at least one rename failed.
	ErrRenameFailures = errors.New("renames failed")
	// ErrDirectoryAccess is returned when the target directory is unusable.
	ErrDirectoryAccess = errors.New("directory not accessible")
)

// Recorder persists finished runs. *history.Store satisfies it.
type Recorder interface {
	RecordRun(ctx context.Context, run history.Run) error
}

// Runner executes batches for one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver *resolver.Resolver
	executor *renamer.Executor
	gate     confirm.Gate
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// Option configures optional Runner behavior.
type Option func(*Runner)

// WithGate overrides the confirmation gate.
func WithGate(gate confirm.Gate) Option {
	return func(r *Runner) { r.gate = gate }
}

// WithRecorder enables history recording.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithResolver overrides the default source chains.
func WithResolver(res *resolver.Resolver) Option {
	return func(r *Runner) { r.resolver = res }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner builds a Runner. Without options it resolves through exiftool at
// cfg.ExifToolBinary(), prompts on stdin (or accepts when rename.assume_yes is
// set), and records nothing.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		executor: renamer.New(logger),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		runner := metadata.ExecRunner{Timeout: time.Duration(cfg.ExifTool.TimeoutSeconds) * time.Second}
		r.resolver = resolver.NewDefault(cfg.ExifToolBinary(), runner, logger)
	}
	if r.gate == nil {
		if cfg.Rename.AssumeYes {
			r.gate = confirm.AssumeYes{}
		} else {
			r.gate = confirm.Prompt{In: os.Stdin, Out: os.Stdout}
		}
	}
	return r
}

// Plan scans and resolves dir without renaming anything.
func (r *Runner) Plan(ctx context.Context, dir string) (*Report, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	report := &Report{Directory: abs, StartedAt: r.now()}
	if _, err := r.prepare(ctx, report, r.logger); err != nil {
		return report, err
	}
	report.Status = "planned"
	report.FinishedAt = r.now()
	return report, nil
}

// Run executes one batch over dir. The returned report is non-nil whenever the
// run got as far as scanning, including on ErrCollisions and ErrDeclined.
func (r *Runner) Run(ctx context.Context, dir string) (*Report, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}
	if check := preflight.CheckDirectoryAccess("Target directory", abs); !check.Passed {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryAccess, check.Detail)
	}

	report := &Report{RunID: r.newID(), Directory: abs, StartedAt: r.now()}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)

	lock, err := runlock.Acquire(r.cfg.LockDir(), abs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release lock failed", logging.Error(err))
		}
	}()

	built, err := r.prepare(ctx, report, logger)
	if err != nil {
		return report, err
	}

	if report.Aborted() {
		errs := make([]error, 0, len(report.Collisions))
		for _, c := range report.Collisions {
			errs = append(errs, &plan.CollisionError{Collision: c})
		}
		r.finish(ctx, logger, report, history.StatusAborted)
		return report, fmt.Errorf("%w: %w", ErrCollisions, errors.Join(errs...))
	}

	if report.NeedsConfirmation() {
		decision, err := r.gate.Confirm(ctx, report.Warnings)
		if err != nil {
			r.finish(ctx, logger, report, history.StatusDeclined)
			return report, err
		}
		if decision != confirm.Accept {
			r.finish(ctx, logger, report, history.StatusDeclined)
			return report, ErrDeclined
		}
	}

	report.Outcomes = r.executor.Execute(ctx, built)
	_, _, failed := report.Counts()
	status := history.StatusCompleted
	if failed > 0 {
		status = history.StatusPartial
	}
	r.finish(ctx, logger, report, status)
	if failed > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrRenameFailures, failed, len(report.Outcomes))
	}
	return report, nil
}

// prepare fills report with the scan, resolution and plan results.
func (r *Runner) prepare(ctx context.Context, report *Report, logger *slog.Logger) (*plan.Plan, error) {
	files, problems, err := scan.Discover(report.Directory)
	if err != nil {
		return nil, err
	}
	report.Files = len(files)
	for _, problem := range problems {
		r.warn(logger, report, confirm.Warning{
			Path:   problem.Path,
			Kind:   WarningUnreadable,
			Detail: problem.Err.Error(),
		})
	}

	builder := plan.NewBuilder()
	for _, file := range files {
		res, err := r.resolver.Resolve(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			kind := WarningUnresolved
			if errors.Is(err, resolver.ErrUnsupportedExtension) {
				kind = WarningUnsupported
			}
			r.warn(logger, report, confirm.Warning{Path: file.Path, Kind: kind, Detail: err.Error()})
			continue
		}

		var collision *plan.CollisionError
		if err := builder.Add(plan.FromResolution(res)); errors.As(err, &collision) {
			logger.Error("timestamp collision",
				"timestamp", string(collision.Timestamp),
				"existing", collision.Existing.Source.Path,
				"incoming", collision.Incoming.Source.Path,
			)
		}
	}

	built, collisions := builder.Result()
	report.Entries = built.Entries()
	report.Collisions = collisions
	logger.Debug("plan built",
		"files", report.Files,
		"entries", len(report.Entries),
		"warnings", len(report.Warnings),
		"collisions", len(report.Collisions),
	)
	return built, nil
}

func (r *Runner) warn(logger *slog.Logger, report *Report, w confirm.Warning) {
	report.Warnings = append(report.Warnings, w)
	logger.Warn("file excluded",
		logging.FieldPath, w.Path,
		logging.FieldReason, w.Kind,
		"detail", w.Detail,
	)
}

func (r *Runner) finish(ctx context.Context, logger *slog.Logger, report *Report, status string) {
	report.Status = status
	report.FinishedAt = r.now()
	if r.recorder == nil {
		return
	}
	// A journal failure never changes the run's outcome.
	if err := r.recorder.RecordRun(context.WithoutCancel(ctx), report.historyRun()); err != nil {
		logger.Warn("record history failed", logging.Error(err))
	}
}
