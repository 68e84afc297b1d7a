package driven

import "context"

// Ledger tracks which submission identifiers have been fully processed.
// It is the authority for at-most-once processing across process
// restarts.
//
// The ledger does not implement distributed locking: each dispatch
// invocation is a short-lived process triggered by a single external
// event, so at most one invocation per submission id is assumed in
// practice. MarkProcessed is idempotent, so a rare race produces a
// duplicate upload (overwritten by path), never a corrupt ledger.
type Ledger interface {
	// HasProcessed reports whether the submission id has been fully
	// processed before.
	HasProcessed(ctx context.Context, submissionID string) (bool, error)

	// MarkProcessed records the submission id as processed. Marking an
	// already-present id is a no-op. There is no un-marking; operators
	// needing to reprocess act on the persisted store out-of-band.
	MarkProcessed(ctx context.Context, submissionID string) error
}
