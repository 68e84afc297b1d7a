package domain

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
)

// FieldTimestamp is the technical column carrying the normalisation
// instant. It is always the last canonical field.
const FieldTimestamp = "submission_timestamp"

// FieldOrder is the canonical complaint field order, aligned with
// QAF-12-01 (rev 04). The order is load-bearing: every rendered artifact
// and every worksheet header comparison uses this exact sequence.
// Changing it requires a coordinated migration of remote state.
var FieldOrder = []string{
	"date",
	"complaint_received_by",
	"first_name",
	"last_name",
	"phone_no",
	"email_address",
	"address",
	"product_name",
	"product_size",
	"lot_serial_no",
	"quantity",
	"purchased_from_distributor",
	"country",
	"complaint_description",
	"complaint_evaluation_level",
	"report_to_authorities",
	"used_on_patient",
	"cleaned_before_sending_back_to_rn",
	"system_kind",
	"primary_solution",
	"comments",
	"complaint_no",
	"date_received_at_qa",
	FieldTimestamp,
}

// ReportSection is a titled group of fields in the single-record report.
type ReportSection struct {
	Title  string
	Fields []string
}

// ReportSections is the report layout in QAF-12-01 (rev 04) section order.
var ReportSections = []ReportSection{
	{Title: "Customer Complaint Form", Fields: []string{"date", "complaint_received_by"}},
	{Title: "Contact Information / Complainant Details", Fields: []string{
		"first_name", "last_name", "phone_no", "email_address", "address",
	}},
	{Title: "Product Details", Fields: []string{
		"product_name", "product_size", "lot_serial_no", "quantity",
		"purchased_from_distributor", "country",
	}},
	{Title: "Complaint", Fields: []string{"complaint_description"}},
	{Title: "Complaint Evaluation", Fields: []string{
		"complaint_evaluation_level", "report_to_authorities", "used_on_patient",
		"cleaned_before_sending_back_to_rn", "system_kind",
	}},
	{Title: "Additional Information", Fields: []string{"primary_solution", "comments"}},
	{Title: "QA Manager", Fields: []string{"complaint_no", "date_received_at_qa"}},
	{Title: "System", Fields: []string{FieldTimestamp}},
}

// FieldFormat is a per-field format constraint, enforced only when a
// value is present and only when validation is explicitly requested.
type FieldFormat int

const (
	// FormatFree accepts any string.
	FormatFree FieldFormat = iota
	// FormatDate requires the value to parse as a calendar date.
	FormatDate
	// FormatNumber requires a non-negative number.
	FormatNumber
	// FormatEmail requires an RFC 5322 address.
	FormatEmail
	// FormatTimestamp requires an ISO-8601 instant.
	FormatTimestamp
)

// FieldRule describes the validity contract of a single canonical field.
type FieldRule struct {
	Required bool
	Format   FieldFormat
}

// fieldRules holds the per-field contracts. Fields not listed are
// optional free text.
var fieldRules = map[string]FieldRule{
	"date":                 {Format: FormatDate},
	"first_name":           {Required: true},
	"last_name":            {Required: true},
	"email_address":        {Format: FormatEmail},
	"quantity":             {Format: FormatNumber},
	"complaint_description": {Required: true},
	"date_received_at_qa":  {Format: FormatDate},
	FieldTimestamp:         {Format: FormatTimestamp},
}

// RuleFor returns the validity contract for a canonical field.
func RuleFor(field string) FieldRule {
	return fieldRules[field]
}

// IsCanonicalField reports whether name is one of the canonical fields.
func IsCanonicalField(name string) bool {
	for _, f := range FieldOrder {
		if f == name {
			return true
		}
	}
	return false
}

// FieldError is a single validation finding. Validation never fails hard;
// callers decide whether findings are fatal.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

// dateLayouts are the accepted representations for date-valued fields.
// Forms and worksheets are loose about this, so several layouts pass.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"2 Jan 2006",
	time.RFC3339,
}

// Validate checks every canonical field of s against its rule and
// returns structured findings. It never panics and performs no I/O.
func Validate(s Submission) []FieldError {
	var findings []FieldError

	for _, field := range FieldOrder {
		rule := fieldRules[field]
		value := strings.TrimSpace(s.Field(field))

		if value == "" {
			if rule.Required {
				findings = append(findings, FieldError{Field: field, Message: "required field is empty"})
			}
			continue
		}

		switch rule.Format {
		case FormatDate:
			if !parsesAsDate(value) {
				findings = append(findings, FieldError{
					Field:   field,
					Message: fmt.Sprintf("value %q does not parse as a date", value),
				})
			}
		case FormatNumber:
			n, err := strconv.ParseFloat(value, 64)
			if err != nil || n < 0 {
				findings = append(findings, FieldError{
					Field:   field,
					Message: fmt.Sprintf("value %q is not a non-negative number", value),
				})
			}
		case FormatEmail:
			if _, err := mail.ParseAddress(value); err != nil {
				findings = append(findings, FieldError{
					Field:   field,
					Message: fmt.Sprintf("value %q is not a valid email address", value),
				})
			}
		case FormatTimestamp:
			if _, err := time.Parse(time.RFC3339, value); err != nil {
				findings = append(findings, FieldError{
					Field:   field,
					Message: fmt.Sprintf("value %q is not an ISO-8601 timestamp", value),
				})
			}
		}
	}

	return findings
}

func parsesAsDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
