package notify

import (
	"context"

	"github.com/hashfx/techblog/models"
)

// Notifier tells the site owner about a new contact message.
type Notifier interface {
	NotifyContact(ctx context.Context, c models.Contact) error
}

// Envelope is the mail built for a contact message.
type Envelope struct {
	Subject string
	Body    string
	ReplyTo string
}

// ContactEnvelope builds the notification mail: the subject names the sender,
// the body is the message followed by the phone number.
func ContactEnvelope(c models.Contact) Envelope {
	return Envelope{
		Subject: "New message from: " + c.Name,
		Body:    c.Msg + "\n" + c.PhoneNum,
		ReplyTo: c.Email,
	}
}

// NopNotifier drops notifications. Used with mail.mode=none.
type NopNotifier struct{}

func (NopNotifier) NotifyContact(context.Context, models.Contact) error { return nil }
