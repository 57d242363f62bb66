// Package main hosts the chrononame CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the logger, and
// hands each invocation to the workflow runner (rename, plan), the history
// journal (history), or the preflight checks (check). Rendering lives here;
// everything that touches files lives in the internal packages.
package main
