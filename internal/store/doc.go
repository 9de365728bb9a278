// Package store provides SQLite-backed durable storage for person records.
//
// The store owns a single table:
//   - people: id INTEGER PRIMARY KEY AUTOINCREMENT, first_name, last_name
//
// # Rules
//
// Ids are issued by SQLite on insert. AUTOINCREMENT guarantees they are
// strictly increasing and never reused, even after deletes.
//
// Reads are deterministic: every list query uses ORDER BY id ASC.
//
// Update and Delete report how the write landed through sentinel errors:
//   - ErrNotFound: zero rows matched the id
//   - ErrConsistency: more than one row matched; the transaction is rolled back
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - One pooled connection: writes are serialized by the pool
//
// Two drivers are supported: "sqlite3" (github.com/mattn/go-sqlite3, cgo)
// and "sqlite" (modernc.org/sqlite, pure Go).
package store
