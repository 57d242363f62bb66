// Package history keeps an append-only SQLite journal of rename runs.
//
// The journal is informational: nothing reads it back while planning, and it
// offers no undo. Each run stores a summary row plus one row per attempted
// rename.
package history
