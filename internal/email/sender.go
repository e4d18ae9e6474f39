// Package email delivers agent-facing notification mail over SMTP.
package email

import "context"

// Sender delivers notification emails.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, agentName, leadName string) error
}

// NoopSender satisfies Sender when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string) error {
	return nil
}
