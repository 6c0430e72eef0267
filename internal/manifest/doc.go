// Package manifest parses and rewrites the project's package.json.
//
// Documents keep top-level key order and carry every value as raw JSON so a
// rewrite changes only the webcomponents object. Output uses two-space
// indentation.
package manifest
