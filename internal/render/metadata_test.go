package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_RoundTrip(t *testing.T) {
	sub := testSubmission(t, map[string]string{"first_name": "Ada"})

	out, err := Metadata("Customer Complaint Form", sub, []string{"qa@example.com"})
	require.NoError(t, err)

	var doc struct {
		SubmissionID string            `json:"submission_id"`
		FormTitle    string            `json:"form_title"`
		Timestamp    string            `json:"timestamp"`
		Recipients   []string          `json:"recipients"`
		Fields       map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, sub.ID(), doc.SubmissionID)
	assert.Equal(t, "Customer Complaint Form", doc.FormTitle)
	assert.Equal(t, "2024-01-05T10:00:00Z", doc.Timestamp)
	assert.Equal(t, []string{"qa@example.com"}, doc.Recipients)
	assert.Equal(t, "Ada", doc.Fields["first_name"])
	assert.Len(t, doc.Fields, 24)
}

func TestMetadata_NilRecipientsMarshalAsEmptyList(t *testing.T) {
	sub := testSubmission(t, nil)

	out, err := Metadata("Customer Complaint Form", sub, nil)
	require.NoError(t, err)

	assert.Contains(t, string(out), `"recipients": []`)
}

func TestMetadata_Deterministic(t *testing.T) {
	sub := testSubmission(t, map[string]string{"first_name": "Ada"})

	a, err := Metadata("t", sub, nil)
	require.NoError(t, err)
	b, err := Metadata("t", sub, nil)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, byte('\n'), a[len(a)-1])
}
