package mailer

import (
	"context"
	"fmt"
)

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared message ready for delivery.
type Email struct {
	To      string
	From    string // empty means the provider's configured sender
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Sender is the minimal interface an email provider adapter implements.
// Delivery is fire-and-forget from the caller's perspective: a returned error
// means the provider rejected the message, not that it bounced.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}
