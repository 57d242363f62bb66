package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"chrononame/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	Stdout      io.Writer
	Stderr      io.Writer
	FilePath    string
	Development bool
}

// New constructs a slog logger using the provided options. Records below WARN
// go to Stdout; WARN and above go to Stderr. When FilePath is set every record
// is also appended to that file, which the returned close func releases. The
// close func is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	addSource := opts.Development || level <= slog.LevelDebug

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	build, err := handlerBuilder(opts.Format)
	if err != nil {
		return nil, nil, err
	}

	handler := newSplitHandler(
		build(stdout, levelVar, addSource),
		build(stderr, levelVar, addSource),
	)

	closeFn := func() error { return nil }
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, nil, err
		}
		handler = newFanoutHandler(handler, build(file, levelVar, addSource))
		closeFn = file.Close
	}

	return slog.New(handler), closeFn, nil
}

// NewFromConfig creates a logger using application config values.
func NewFromConfig(cfg *config.Config, stdout, stderr io.Writer) (*slog.Logger, func() error, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", Stdout: stdout, Stderr: stderr})
	}

	opts := Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Stdout: stdout,
		Stderr: stderr,
	}
	if cfg.Logging.ToFile {
		opts.FilePath = cfg.LogPath()
	}
	return New(opts)
}

type handlerFactory func(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler

func handlerBuilder(format string) (handlerFactory, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return newPrettyHandler, nil
	case "json":
		return newJSONHandler, nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
