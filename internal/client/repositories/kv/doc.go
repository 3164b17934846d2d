// Package kv provides the persistence backend of TaskKeeper: a flat map of
// UTF-8 string keys to UTF-8 string values scoped to one device.
//
// Two implementations are available:
//
//   - SQLiteStore: a single "kv" table in the local SQLite database created
//     by the goose migrations in internal/client/migrations (default);
//   - BoltStore: a single bucket in a BoltDB file.
//
// Every Set and SetMany call replaces whole values in one transaction, so a
// reader never observes a partially written collection.
package kv
