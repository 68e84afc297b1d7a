package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DispatchEvent is the trigger payload for one form submission, in the
// repository_dispatch envelope shape the upstream trigger emits.
type DispatchEvent struct {
	EventType     string        `json:"event_type"`
	ClientPayload ClientPayload `json:"client_payload"`
}

// ClientPayload carries the submission itself.
type ClientPayload struct {
	SubmissionID string      `json:"submission_id"`
	FormTitle    string      `json:"form_title"`
	Timestamp    string      `json:"timestamp"`
	Fields       RawFieldSet `json:"fields"`
	EmailTo      []string    `json:"email_to"`
}

// ParseDispatchEvent decodes an event JSON document.
// A payload without fields is rejected; everything else is left to the
// normaliser and, when requested, schema validation.
func ParseDispatchEvent(data []byte) (*DispatchEvent, error) {
	var ev DispatchEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: decoding dispatch event: %v", ErrInvalidInput, err)
	}
	if len(ev.ClientPayload.Fields) == 0 {
		return nil, fmt.Errorf("%w: dispatch event has no fields", ErrInvalidInput)
	}
	return &ev, nil
}

// Recipients returns the payload's email recipients with blanks removed.
func (p ClientPayload) Recipients() []string {
	out := make([]string, 0, len(p.EmailTo))
	for _, addr := range p.EmailTo {
		if a := strings.TrimSpace(addr); a != "" {
			out = append(out, a)
		}
	}
	return out
}
