// Package recordstore implements RecordStore, the stateful owner of the
// person-record database, its in-memory cache, and the snapshot stream.
//
// # Contract
//
// Every operation returns a bool. Storage failures are logged and reported as
// false; they never panic and never reach the caller as errors.
//
// The cache mirrors the database as of the last successful write or the
// initial load. It is mutated only after the write has been acknowledged, so
// a failed write leaves it untouched.
//
// Each successful Open, Create, Update and Delete publishes the whole cache.
// Subscribers obtained from All receive every later snapshot, in order and
// sorted by id. A new subscriber first receives the most recent snapshot,
// if one exists. Slow subscribers queue snapshots rather than lose them.
//
// # Lifecycle
//
//	s := recordstore.New("people.db")
//	s.Open(ctx)             // connect, ensure table, load, publish
//	s.Create(ctx, "Ada", "Lovelace")
//	s.Close()               // CRUD returns false until the next Open
//
// Operations accept a context for request-scoped values only. Once issued an
// operation runs to completion; cancellation is not observed.
package recordstore
