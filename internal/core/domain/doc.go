// Package domain contains the core business types for the complaints
// pipeline: the canonical complaint schema, normalised submissions,
// worksheet snapshots, dispatch event payloads, and domain errors.
//
// The package is pure data and validation - it performs no I/O and
// depends on nothing outside the standard library.
package domain
