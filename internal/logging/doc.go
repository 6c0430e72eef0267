// Package logging assembles structured slog loggers used across wcpack.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so compiler runs and registry
// updates are tagged with run IDs and component names. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
