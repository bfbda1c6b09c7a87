package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers transition events to an operations mailbox via
// SendGrid. One address for now; per-role routing would need the portal's
// user directory, which lives outside this service.
type EmailSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	toEmail   string
}

func NewEmailSender(apiKey, fromEmail, fromName, toEmail string) *EmailSender {
	return &EmailSender{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName, toEmail: toEmail}
}

func (s *EmailSender) Send(ctx context.Context, e Event) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", s.toEmail)

	subject := fmt.Sprintf("Guarantee %s: %s", e.GuaranteeID, e.Action)
	body := fmt.Sprintf("Guarantee %s moved to %q via %s by %s (%s) at %s.",
		e.GuaranteeID, e.State, e.Action, e.ActorID, e.ActorRole, e.At.UTC().Format("2006-01-02 15:04:05 MST"))

	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogSender writes events to the application log. Used as the default sender
// when no email credentials are configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, e Event) error {
	log.Printf("event: guarantee=%s action=%s state=%s actor=%s role=%s",
		e.GuaranteeID, e.Action, e.State, e.ActorID, e.ActorRole)
	return nil
}
