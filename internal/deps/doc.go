// Package deps reports whether the external tools and files wcpack needs are
// present, for the doctor command.
package deps
