package domain

import (
	"fmt"
	"strings"
)

// WorksheetSnapshot is a full read of the complaints worksheet: a header
// row plus data rows in their original order. Rows shorter than the
// header are padded with empty cells on access.
type WorksheetSnapshot struct {
	Header []string
	Rows   [][]string
}

// ValidateHeader checks the snapshot header against the canonical field
// order. The comparison trims surrounding whitespace and ignores any
// extra trailing columns beyond the canonical set, matching how form
// hosts append bookkeeping columns.
//
// Returns ErrSchemaMismatch when the leading columns differ.
func (w WorksheetSnapshot) ValidateHeader() error {
	if len(w.Header) < len(FieldOrder) {
		return fmt.Errorf("%w: got %d columns, want at least %d",
			ErrSchemaMismatch, len(w.Header), len(FieldOrder))
	}

	for i, want := range FieldOrder {
		got := strings.TrimSpace(w.Header[i])
		if got != want {
			return fmt.Errorf("%w: column %d is %q, want %q",
				ErrSchemaMismatch, i+1, got, want)
		}
	}
	return nil
}

// Cell returns the cell at (row, col), or "" when the row is shorter
// than the header.
func (w WorksheetSnapshot) Cell(row, col int) string {
	if row < 0 || row >= len(w.Rows) {
		return ""
	}
	r := w.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
