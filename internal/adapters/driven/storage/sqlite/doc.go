// Package sqlite provides a SQLite-based implementation of the drafting
// library.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A Store holds one database connection
// and hands out the LibraryStore backed by it.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Revisions keep the encoded drafting document as a blob together with a
// summary; they are ordered by insertion.
//
// # Data Location
//
// By default, the database is stored at ~/.drafter/data/library.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
