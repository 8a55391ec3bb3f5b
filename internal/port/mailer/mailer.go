// Package mailer defines the transactional email port.
package mailer

import "context"

// Message is one outbound email with an HTML body.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends transactional email. Sends are best-effort: callers log
// failures but never fail the surrounding request because of them.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
