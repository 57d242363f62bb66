// Package workflow runs one rename batch over a single directory.
//
// A run takes the directory's lock, lists its entries, resolves a timestamp
// for each file, and builds a collision-checked plan. Any collision aborts the
// run before the filesystem is touched. Files that could not be resolved are
// reported as warnings and put to the confirmation gate; once accepted, the
// plan is executed entry by entry and the outcome is written to the history
// journal.
package workflow
