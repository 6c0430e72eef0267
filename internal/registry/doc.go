// Package registry records web component versions in the project manifest.
//
// Register performs a locked read-modify-write of the webcomponents section,
// List reads it back, and EchoVersion formats a name/version pair without
// touching storage. Lookup keeps the combined entry point: it echoes when a
// component is named and lists otherwise.
package registry
