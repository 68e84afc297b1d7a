package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmission_FillsCanonicalFields(t *testing.T) {
	sub, err := NewSubmission("sub-1", map[string]string{
		"first_name": "Ada",
		"ignored":    "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, "sub-1", sub.ID())
	assert.Equal(t, "Ada", sub.Field("first_name"))
	assert.Equal(t, "", sub.Field("last_name"))
	assert.Equal(t, "", sub.Field("ignored"))

	fields := sub.Fields()
	require.Len(t, fields, len(FieldOrder))
	_, kept := fields["ignored"]
	assert.False(t, kept)
}

func TestNewSubmission_EmptyID(t *testing.T) {
	_, err := NewSubmission("", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmission_Values(t *testing.T) {
	sub, err := NewSubmission("sub-1", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.NoError(t, err)

	values := sub.Values(FieldOrder)
	require.Len(t, values, len(FieldOrder))
	assert.Equal(t, "Ada", values[2])
	assert.Equal(t, "Lovelace", values[3])

	values = sub.Values([]string{"last_name", "first_name", "nope"})
	assert.Equal(t, []string{"Lovelace", "Ada", ""}, values)
}

func TestSubmission_FieldsReturnsCopy(t *testing.T) {
	sub, err := NewSubmission("sub-1", map[string]string{"first_name": "Ada"})
	require.NoError(t, err)

	fields := sub.Fields()
	fields["first_name"] = "mutated"
	assert.Equal(t, "Ada", sub.Field("first_name"))
}

func TestSubmissionID_Format(t *testing.T) {
	ts := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-05T10:00:00Z#7", SubmissionID(ts, 7))
}

func TestSubmissionID_NormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 1, 5, 11, 0, 0, 0, loc)
	assert.Equal(t, "2024-01-05T10:00:00Z#0", SubmissionID(ts, 0))
}

func TestTimestampLayout_RoundTrips(t *testing.T) {
	ts := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	formatted := ts.Format(TimestampLayout)

	parsed, err := time.Parse(time.RFC3339, formatted)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}
