// Package sqlite provides the persisted idempotency ledger, backed by a
// local SQLite database with embedded schema migrations.
package sqlite
