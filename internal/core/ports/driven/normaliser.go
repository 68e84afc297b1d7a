package driven

import "github.com/rn-medical/complaints-pipeline/internal/core/domain"

// Normaliser maps loosely-typed input onto the canonical schema.
type Normaliser interface {
	// Normalise maps a raw field set onto the canonical schema. The
	// returned slice lists unmapped labels that were dropped; in strict
	// mapping mode they are returned alongside an error instead.
	Normalise(raw domain.RawFieldSet, ctx domain.NormaliseContext) (domain.Submission, []string, error)

	// NormaliseRow maps one worksheet row onto the canonical schema by
	// position. The caller has already validated the header order.
	NormaliseRow(snapshot *domain.WorksheetSnapshot, row int) (domain.Submission, error)
}
