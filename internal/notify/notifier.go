// Package notify delivers email notifications through a message queue.
// Every send is fire-and-forget: failures are logged and never surface to
// the operation that triggered the notification.
package notify

import "context"

// EmailMessage is the payload handed to the out-of-process mailer.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Notifier sends domain notifications.
type Notifier interface {
	Welcome(ctx context.Context, email, name string)
	SubmissionReceived(ctx context.Context, email, toolName string)
	ToolApproved(ctx context.Context, email, toolName string)
	PasswordReset(ctx context.Context, email, name, token string)
}

// Noop discards all notifications. Used in tests and when no broker is
// configured.
type Noop struct{}

func (Noop) Welcome(context.Context, string, string)               {}
func (Noop) SubmissionReceived(context.Context, string, string)    {}
func (Noop) ToolApproved(context.Context, string, string)          {}
func (Noop) PasswordReset(context.Context, string, string, string) {}
