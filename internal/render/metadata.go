package render

import (
	"encoding/json"
	"fmt"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// metadataDocument is the machine-readable companion to the PDF report.
// It carries the same submission, paired 1:1 with the document.
type metadataDocument struct {
	SubmissionID string            `json:"submission_id"`
	FormTitle    string            `json:"form_title"`
	Timestamp    string            `json:"timestamp"`
	Recipients   []string          `json:"recipients"`
	Fields       map[string]string `json:"fields"`
}

// Metadata renders the JSON metadata artifact for a submission.
// Field keys marshal in sorted order, so output is byte-stable.
func Metadata(formTitle string, sub domain.Submission, recipients []string) ([]byte, error) {
	if recipients == nil {
		recipients = []string{}
	}

	doc := metadataDocument{
		SubmissionID: sub.ID(),
		FormTitle:    formTitle,
		Timestamp:    sub.Timestamp(),
		Recipients:   recipients,
		Fields:       sub.Fields(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}
	return append(data, '\n'), nil
}
