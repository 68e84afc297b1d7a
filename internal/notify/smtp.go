// Package notify implements the notification collaborator over SMTP.
// Notification failures are reported to the caller, which treats them as
// best-effort per the orchestrator's failure policy.
package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/rn-medical/complaints-pipeline/internal/core/ports/driven"
)

// Config addresses the SMTP relay.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Notifier sends plain-text emails with file attachments.
type Notifier struct {
	cfg Config
}

// New creates an SMTP notifier.
func New(cfg Config) *Notifier {
	return &Notifier{cfg: cfg}
}

// Send delivers one message to all recipients.
func (n *Notifier) Send(ctx context.Context, recipients []string, subject, body string, attachments []driven.Attachment) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients provided")
	}

	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", n.cfg.From, err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	for _, att := range attachments {
		if err := msg.AttachReader(att.Filename, bytes.NewReader(att.Content)); err != nil {
			return fmt.Errorf("attaching %s: %w", att.Filename, err)
		}
	}

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}
