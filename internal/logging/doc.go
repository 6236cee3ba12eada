// Package logging assembles structured slog loggers and formatting helpers used
// across awp.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so player code can tag log lines
// with the session ID and the track being played. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// The player owns the terminal while it runs, so its logger writes only to a
// file; the playlist tools log to stderr and keep stdout for their output.
package logging
