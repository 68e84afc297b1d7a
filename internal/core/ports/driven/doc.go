// Package driven defines the interfaces that the pipeline core calls OUT
// to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them:
//
//   - Ledger: idempotency tracking (SQLite, or memory in tests)
//   - DocumentStore: remote artifact uploads (Dropbox)
//   - Worksheet: the complaints worksheet (Google Sheets)
//   - Notifier: email notifications (SMTP); failures are best-effort
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
