package form

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rn-medical/complaints-pipeline/internal/core/domain"
)

// QuestionMap translates free-text form question labels into canonical
// field names. It is an explicit, versioned lookup table: unmapped labels
// are intentionally dropped unless Strict is set, in which case they are
// reported so upstream form drift is detected instead of masked.
type QuestionMap struct {
	// Version identifies the mapping revision in logs and metadata.
	Version int `toml:"version"`

	// Strict makes unmapped labels a normalisation error instead of a
	// silent drop.
	Strict bool `toml:"strict"`

	// Entries maps a normalised question label to a canonical field name.
	Entries map[string]string `toml:"entries"`
}

// DefaultQuestionMap returns the built-in mapping for the current form
// revision. The upstream trigger already sends normalised keys; this
// table keeps the pipeline robust when payload fields are still raw
// question titles.
func DefaultQuestionMap() QuestionMap {
	return QuestionMap{
		Version: 4,
		Entries: map[string]string{
			"date":                  "date",
			"complaint received by": "complaint_received_by",
			"first name":            "first_name",
			"last name":             "last_name",
			"phone number":          "phone_no",
			"phone no":              "phone_no",
			"email address":         "email_address",
			"address":               "address",
			"product name":          "product_name",
			"product size":          "product_size",
			"lot / serial number":   "lot_serial_no",
			"lot / serial no":       "lot_serial_no",
			"lot/serial no":         "lot_serial_no",
			"quantity":              "quantity",
			"purchased from (distributer)": "purchased_from_distributor",
			"purchased from (distributor)": "purchased_from_distributor",
			"country":               "country",
			"complaint description": "complaint_description",
			"complaint type":        "complaint_evaluation_level",
			"should this complaint be reported to authorities ?": "report_to_authorities",
			"was the device used on a patient?":                  "used_on_patient",
			"was the device cleaned before sending back to rn?":  "cleaned_before_sending_back_to_rn",
			"what kind of system is this?":                       "system_kind",
			"primary solution (if provided)":                     "primary_solution",
			"comments (if applicable)":                           "comments",
			"complaint no.":             "complaint_no",
			"complaint no":              "complaint_no",
			"date complaint received at qa": "date_received_at_qa",
			"timestamp":                 domain.FieldTimestamp,
			domain.FieldTimestamp:       domain.FieldTimestamp,
		},
	}
}

// LoadQuestionMap reads a mapping override from a TOML file. Entries must
// target canonical fields; anything else is a configuration error.
func LoadQuestionMap(path string) (QuestionMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QuestionMap{}, fmt.Errorf("reading question map: %w", err)
	}

	var qm QuestionMap
	if err := toml.Unmarshal(data, &qm); err != nil {
		return QuestionMap{}, fmt.Errorf("parsing question map: %w", err)
	}

	for label, field := range qm.Entries {
		if !domain.IsCanonicalField(field) {
			return QuestionMap{}, fmt.Errorf("%w: question %q maps to unknown field %q",
				domain.ErrInvalidInput, label, field)
		}
	}
	return qm, nil
}

// Lookup resolves a raw question label to its canonical field.
func (q QuestionMap) Lookup(label string) (string, bool) {
	field, ok := q.Entries[NormaliseLabel(label)]
	return field, ok
}

// NormaliseLabel lowercases a question label and collapses internal
// whitespace, matching how the mapping table is keyed.
func NormaliseLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(label))), " ")
}
