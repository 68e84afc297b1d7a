package driven

import "context"

// Attachment is a file attached to a notification email.
type Attachment struct {
	Filename string
	Content  []byte
}

// Notifier sends email notifications. Failures never propagate as fatal
// pipeline errors; the orchestrator records them and continues.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string, attachments []Attachment) error
}
