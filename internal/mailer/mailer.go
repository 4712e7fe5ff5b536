// Package mailer abstracts the mail transport: verify connectivity, send a
// composed message with attachments. Two implementations exist, SMTP and
// AWS SES, selected by configuration.
package mailer

import "context"

// Attachment is one file to attach under its original name.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is a fully composed email ready for delivery.
type Message struct {
	From        string
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer is the transport collaborator contract.
type Mailer interface {
	// Verify establishes a connection to the transport and confirms it is
	// usable, without sending anything.
	Verify(ctx context.Context) error

	// Send delivers the message with all attachments.
	Send(ctx context.Context, msg *Message) error
}
