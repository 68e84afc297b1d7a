// Package form normalises loosely-typed form submissions onto the
// canonical complaint schema.
package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
)

// multiValueSeparator joins multi-choice answers into one field value.
const multiValueSeparator = ", "

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser maps RawFieldSets onto the canonical schema.
type Normaliser struct {
	questions QuestionMap
	now       func() time.Time
}

// New creates a normaliser with the given question map.
func New(questions QuestionMap) *Normaliser {
	return &Normaliser{questions: questions, now: time.Now}
}

// NewWithClock creates a normaliser with an injected clock.
func NewWithClock(questions QuestionMap, now func() time.Time) *Normaliser {
	return &Normaliser{questions: questions, now: now}
}

// Normalise maps a raw field set onto the canonical schema.
//
// Every canonical field starts empty. Raw labels are resolved through the
// question map; labels that are already canonical field names are
// accepted directly. Unknown labels are dropped and returned for
// observability; in strict mapping mode they are an error instead, so a
// misconfigured mapping cannot silently lose answers.
//
// The submission timestamp is computed exactly once here - never at
// render time - so one Submission carries a single true timestamp.
func (n *Normaliser) Normalise(raw domain.RawFieldSet, ctx domain.NormaliseContext) (domain.Submission, []string, error) {
	fields := make(map[string]string, len(domain.FieldOrder))
	for _, f := range domain.FieldOrder {
		fields[f] = ""
	}

	var unmapped []string
	for label, value := range raw {
		if field, ok := n.questions.Lookup(label); ok {
			fields[field] = flattenValue(value)
			continue
		}
		if domain.IsCanonicalField(label) {
			fields[label] = flattenValue(value)
			continue
		}
		unmapped = append(unmapped, label)
	}

	if n.questions.Strict && len(unmapped) > 0 {
		return domain.Submission{}, unmapped,
			fmt.Errorf("%w: unmapped labels: %s", domain.ErrValidationFailed, strings.Join(unmapped, ", "))
	}

	ts := n.resolveTimestamp(ctx.Timestamp, fields[domain.FieldTimestamp])
	fields[domain.FieldTimestamp] = ts.Format(domain.TimestampLayout)

	id := ctx.SubmissionID
	if id == "" {
		id = domain.SubmissionID(ts, ctx.Index)
	}

	sub, err := domain.NewSubmission(id, fields)
	if err != nil {
		return domain.Submission{}, unmapped, err
	}
	return sub, unmapped, nil
}

// NormaliseRow maps one worksheet row onto the canonical schema by
// position. No label lookup happens: the caller has already validated
// the header against the canonical order.
func (n *Normaliser) NormaliseRow(snapshot *domain.WorksheetSnapshot, row int) (domain.Submission, error) {
	fields := make(map[string]string, len(domain.FieldOrder))
	for i, f := range domain.FieldOrder {
		fields[f] = snapshot.Cell(row, i)
	}

	ts := n.resolveTimestamp(fields[domain.FieldTimestamp], "")
	if fields[domain.FieldTimestamp] == "" {
		fields[domain.FieldTimestamp] = ts.Format(domain.TimestampLayout)
	}

	return domain.NewSubmission(domain.SubmissionID(ts, row), fields)
}

// resolveTimestamp picks the one true submission timestamp: the upstream
// value when it parses, the current UTC instant otherwise.
func (n *Normaliser) resolveTimestamp(candidates ...string) time.Time {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, c); err == nil {
			return ts.UTC().Truncate(time.Second)
		}
	}
	return n.now().UTC().Truncate(time.Second)
}

// flattenValue renders a raw answer as a single string. Multi-valued
// answers are joined with ", "; a single value is used unmodified.
func flattenValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, multiValueSeparator)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, flattenValue(item))
		}
		return strings.Join(parts, multiValueSeparator)
	case float64:
		// JSON numbers decode as float64; render integers without a
		// trailing fraction.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
