// Package cli provides the interactive TaskKeeper command-line client.
//
// It wires configuration, local storage and the application services, then
// serves a REPL. A persisted session is resumed at startup, and a background
// goroutine fires task reminders for as long as the REPL runs.
//
// Key features:
//   - Signup / Login / Logout
//   - Add, edit, complete, delete and reorder tasks
//   - Filtered and sorted listings, upcoming tasks
//   - JSON export and import
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
