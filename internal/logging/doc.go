// Package logging assembles structured slog loggers used across chrononame.
//
// It owns the console and JSON handlers, routes records below WARN to stdout
// and everything else to stderr, and can tee all records into a log file under
// the state directory. Context helpers attach the run identifier so every line
// emitted during one rename run can be correlated with its history entry.
package logging
