package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the wire representation of the submission timestamp:
// ISO-8601 UTC with seconds precision.
const TimestampLayout = "2006-01-02T15:04:05Z"

// RawFieldSet maps an arbitrary free-text question or column label to a
// value. Values are strings or lists of strings (multi-choice answers).
// It is ephemeral input, discarded after normalisation.
type RawFieldSet map[string]any

// Submission is one normalised complaint record. Its field set is always
// exactly the canonical schema; missing answers are empty strings.
// A Submission is immutable after creation and owned exclusively by the
// pipeline invocation that created it.
type Submission struct {
	id     string
	fields map[string]string
}

// NewSubmission builds a Submission from canonical field values.
// Every canonical field is present in the result; non-canonical keys in
// fields are dropped. The id must be non-empty.
func NewSubmission(id string, fields map[string]string) (Submission, error) {
	if id == "" {
		return Submission{}, fmt.Errorf("%w: empty submission id", ErrInvalidInput)
	}

	out := make(map[string]string, len(FieldOrder))
	for _, f := range FieldOrder {
		out[f] = fields[f]
	}
	return Submission{id: id, fields: out}, nil
}

// NormaliseContext carries per-invocation normalisation input: the
// upstream identifiers when the trigger supplies them, and a positional
// discriminator used when it does not.
type NormaliseContext struct {
	// SubmissionID is the upstream-assigned identifier; when empty, an id
	// is derived from the normalisation timestamp and Index.
	SubmissionID string

	// Timestamp is the upstream submission instant; when empty or
	// unparseable, the normalisation clock is used.
	Timestamp string

	// Index is the positional discriminator (e.g. the event sequence
	// position) that keeps derived ids unique within one second.
	Index int
}

// SubmissionID formats a derived submission identifier from the
// normalisation timestamp and a caller-supplied discriminator. The
// discriminator guarantees uniqueness for submissions normalised within
// the same second.
func SubmissionID(ts time.Time, discriminator int) string {
	return fmt.Sprintf("%s#%d", ts.UTC().Format(TimestampLayout), discriminator)
}

// ID returns the unique submission identifier.
func (s Submission) ID() string { return s.id }

// Field returns the value of a canonical field, or "" for unknown names.
func (s Submission) Field(name string) string { return s.fields[name] }

// Timestamp returns the submission_timestamp field value.
func (s Submission) Timestamp() string { return s.fields[FieldTimestamp] }

// Values returns the field values in the given order. Unknown names
// yield empty strings, keeping row alignment stable.
func (s Submission) Values(order []string) []string {
	out := make([]string, len(order))
	for i, f := range order {
		out[i] = s.fields[f]
	}
	return out
}

// Fields returns a copy of the canonical field map.
func (s Submission) Fields() map[string]string {
	out := make(map[string]string, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}
