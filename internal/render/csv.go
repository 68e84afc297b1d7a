package render

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// BulkCSV renders a tabular export: the given header row followed by one
// data row per worksheet row, preserving insertion order. Rows are
// padded or truncated to the header width so column alignment never
// drifts.
//
// Callers enforce the canonical-header invariant before rendering; in
// non-strict mode they pass the sheet's own header through unchanged.
func BulkCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}

	aligned := make([]string, len(header))
	for i, row := range rows {
		for col := range aligned {
			if col < len(row) {
				aligned[col] = row[col]
			} else {
				aligned[col] = ""
			}
		}
		if err := w.Write(aligned); err != nil {
			return nil, fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}
