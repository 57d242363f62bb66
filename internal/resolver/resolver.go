package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"chrononame/internal/logging"
	"chrononame/internal/metadata"
	"chrononame/internal/scan"
)

// AmbiguousMarker is inserted between the timestamp and the extension when the
// timestamp came from a source without timezone information.
const AmbiguousMarker = " (utc)"

// ErrUnsupportedExtension marks files whose extension is on neither allow-list.
var ErrUnsupportedExtension = errors.New("unsupported extension")

// UnresolvedError is returned when every eligible source failed.
type UnresolvedError struct {
	Path     string
	Attempts []error
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, attempt.Error())
	}
	return fmt.Sprintf("no timestamp for %q: %s", e.Path, strings.Join(parts, "; "))
}

func (e *UnresolvedError) Unwrap() []error {
	return e.Attempts
}

// Resolution is the outcome for one file.
type Resolution struct {
	File      scan.SourceFile
	Timestamp metadata.Timestamp
	Target    string
	Source    string
	Ambiguous bool
}

// Resolver walks the source chain for each file.
type Resolver struct {
	image  []metadata.Source
	video  []metadata.Source
	logger *slog.Logger
}

// New builds a Resolver from explicit chains. The image chain also serves
// extensionless files.
func New(image, video []metadata.Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		image:  append([]metadata.Source(nil), image...),
		video:  append([]metadata.Source(nil), video...),
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// NewDefault builds the standard chains: embedded EXIF DateTimeOriginal, then
// exiftool CreationDate, then exiftool CreateDate. Videos skip the EXIF step.
func NewDefault(binary string, runner metadata.ToolRunner, logger *slog.Logger) *Resolver {
	creationDate := metadata.NewCreationDate(binary, runner)
	createDate := metadata.NewCreateDate(binary, runner)
	return New(
		[]metadata.Source{metadata.NewExifOriginal(), creationDate, createDate},
		[]metadata.Source{creationDate, createDate},
		logger,
	)
}

// Chain returns the sources tried for file, in order.
func (r *Resolver) Chain(file scan.SourceFile) ([]metadata.Source, error) {
	switch Classify(file) {
	case ClassImage, ClassUntyped:
		return r.image, nil
	case ClassVideo:
		return r.video, nil
	default:
		return nil, fmt.Errorf("%w %q: %s", ErrUnsupportedExtension, "."+file.Ext, file.Path)
	}
}

// Resolve returns the first timestamp any eligible source produces. Source
// failures are collected into an *UnresolvedError; context cancellation is
// returned as-is.
func (r *Resolver) Resolve(ctx context.Context, file scan.SourceFile) (Resolution, error) {
	chain, err := r.Chain(file)
	if err != nil {
		return Resolution{}, err
	}

	attempts := make([]error, 0, len(chain))
	for _, source := range chain {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}
		ts, err := source.Resolve(ctx, file)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Resolution{}, ctxErr
			}
			r.logger.Debug("source failed",
				logging.FieldPath, file.Path,
				"source", source.Name(),
				logging.Error(err),
			)
			attempts = append(attempts, err)
			continue
		}
		return Resolution{
			File:      file,
			Timestamp: ts,
			Target:    TargetName(ts, file.Ext, source.Ambiguous()),
			Source:    source.Name(),
			Ambiguous: source.Ambiguous(),
		}, nil
	}
	return Resolution{}, &UnresolvedError{Path: file.Path, Attempts: attempts}
}

// TargetName builds "<ts>[ (utc)][.<ext>]". ext must already be lowercased and
// carry no leading dot.
func TargetName(ts metadata.Timestamp, ext string, ambiguous bool) string {
	name := string(ts)
	if ambiguous {
		name += AmbiguousMarker
	}
	if ext != "" {
		name += "." + ext
	}
	return name
}
