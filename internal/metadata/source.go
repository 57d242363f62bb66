package metadata

import (
	"context"

	"chrononame/internal/scan"
)

// Source extracts a capture timestamp from one metadata field.
type Source interface {
	// Name identifies the source in logs, plans and history records.
	Name() string
	// Ambiguous reports whether timestamps from this source lack a timezone.
	Ambiguous() bool
	// Resolve returns the timestamp or a *Warning.
	Resolve(ctx context.Context, file scan.SourceFile) (Timestamp, error)
}
