package driven

import (
	"context"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// Worksheet is the complaints worksheet collaborator. Backup mode only
// reads; AppendRow exists for the watch-mode write-back and is never
// called during a backup run.
type Worksheet interface {
	// ReadHeader returns the header row's cell values in column order.
	ReadHeader(ctx context.Context) ([]string, error)

	// ReadAllRows returns every data row below the header, in sheet order.
	ReadAllRows(ctx context.Context) ([][]string, error)

	// ReadSnapshot returns header and rows as one consistent snapshot.
	ReadSnapshot(ctx context.Context) (*domain.WorksheetSnapshot, error)

	// AppendRow appends one row of values after the last data row.
	AppendRow(ctx context.Context, values []string) error
}
