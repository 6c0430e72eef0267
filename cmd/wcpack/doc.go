// Command wcpack drives the web-component compiler for a project and keeps
// the component registry in its package.json.
//
// Subcommands: build runs the compiler in the current directory and relays
// its output to the log; register (alias add) records a component version;
// list and echo read the registry; doctor checks the toolchain; config
// init and validate manage the TOML configuration.
package main
