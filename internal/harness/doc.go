// Package harness runs YAML scenarios against a real RecordStore.
//
// A scenario is a list of store operations (open, create, update, delete,
// close) with optional expected results, followed by assertions on the
// final cache, the number of snapshots published, and the rows that were
// actually persisted.
//
// Every scenario runs against a fresh database in its own temporary
// directory. Subscription ids come from a sequential generator, so traces
// are byte-identical across runs and can be compared with golden files:
//
//	go test ./internal/harness -update
//
// regenerates testdata/golden.
package harness
