package driving

import (
	"context"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// DispatchResult reports what one dispatch run produced.
type DispatchResult struct {
	// SubmissionID is the processed submission identifier.
	SubmissionID string

	// Submission is the normalised record the run produced, valid when
	// Skipped is false. Drivers use it for the worksheet write-back.
	Submission domain.Submission

	// Skipped is true when the ledger short-circuited the run because the
	// submission was already processed. Skipped runs are successes.
	Skipped bool

	// ReportPath and MetadataPath are the remote destinations of the
	// uploaded artifacts, empty when uploads were disabled.
	ReportPath   string
	MetadataPath string

	// Warnings records best-effort failures (notification errors) that
	// did not fail the run.
	Warnings []string
}

// Dispatcher processes one submission event end to end: normalisation,
// idempotency check, artifact rendering, uploads, optional notification,
// and the final ledger mark.
type Dispatcher interface {
	ProcessEvent(ctx context.Context, event *domain.DispatchEvent) (*DispatchResult, error)
}
