// Package logging assembles structured slog loggers and formatting helpers used
// across subspeak.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so the synchronization driver can
// tag log lines with run IDs and cue indexes. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
