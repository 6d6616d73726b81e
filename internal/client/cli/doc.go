// Package cli provides the interactive TaskKeeper command-line client.
//
// It wires configuration, the HTTP API client and an interactive REPL.
// Typical flow: start a background reachability watcher, log in, then add,
// list and search tasks.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
