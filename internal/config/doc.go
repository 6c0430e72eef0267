// Package config loads, normalizes, and validates wcpack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// WCPACK_PROJECT_ROOT. The Config type centralizes where the project lives,
// how the component compiler is launched, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
