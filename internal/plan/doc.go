// Package plan accumulates resolved files into a rename plan keyed by
// canonical timestamp.
//
// A Plan never holds two entries for the same timestamp: Insert reports the
// clash as a *CollisionError instead of overwriting. Builder wraps a Plan for a
// whole batch, recording every collision so the run can report all of them
// before refusing to rename anything.
package plan
