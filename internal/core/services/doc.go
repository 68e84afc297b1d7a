// Package services implements the driving ports: the upload
// orchestrators that sequence rendering, remote uploads, and
// notifications for the two pipeline modes.
//
// Failure isolation policy: rendering failures are fatal for the whole
// invocation; an upload failure for a primary artifact is fatal; an
// upload failure for the run log is recorded but does not fail the run;
// a notification failure is always best-effort. The idempotency ledger
// is marked only after the primary uploads succeed.
package services
