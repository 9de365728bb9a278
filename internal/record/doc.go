// Package record defines the person Record value and its snapshot ordering.
//
// This package contains value types only. Every other internal package
// imports record; record imports nothing internal.
//
// Key constraints:
//   - Equality and ordering are keyed on ID alone; names never take part
//   - Records are values: an update produces a new Record with the same ID
//   - Names are NFC normalized and trimmed before they reach storage
//   - All JSON and YAML tags use snake_case
package record
