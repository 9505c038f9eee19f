// Package sqlite implements scan.Repository on an embedded SQLite
// database (modernc.org/sqlite, no cgo).
//
// Records live in a single scans table. Raw headers are stored as a JSON
// object; timestamps as Unix nanoseconds so ordering is exact.
package sqlite
