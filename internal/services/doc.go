// Package services defines shared utilities consumed by the registry, the
// compiler trigger, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp compiler run IDs and component names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell
//     manifest access failures from malformed manifests and tool failures.
//
// Use these helpers when wiring new commands so error classification and
// observability stay uniform.
package services
