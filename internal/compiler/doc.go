// Package compiler launches the external web-component compiler.
//
// Build runs the Stencil CLI through Node with `build --docs` in the current
// working directory, relays stdout lines to the info log and stderr lines to
// the error log, and resolves a Run handle with the exit code, signal, and a
// tail of stderr once the process exits.
package compiler
