// Package store persists calibrated and aggregated datasets to SQLite.
// Schema changes are managed by golang-migrate over migrations embedded
// in the binary.
//
// It implements the process.Persister contract; no processing math is
// allowed here.
package store
