package notify

import (
	"context"
	"fmt"

	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/events"
	"github.com/hashfx/techblog/models"
)

// KafkaNotifier publishes a contact.submitted event instead of mailing directly.
// cmd/mailer consumes the topic and does the SMTP delivery with retries.
type KafkaNotifier struct {
	pub    eventbus.Publisher
	topic  eventbus.Topic
	source string
}

func NewKafkaNotifier(pub eventbus.Publisher, topic eventbus.Topic, source string) *KafkaNotifier {
	return &KafkaNotifier{pub: pub, topic: topic, source: source}
}

func (n *KafkaNotifier) NotifyContact(ctx context.Context, c models.Contact) error {
	payload := events.NewContactSubmittedEvent(c, n.source)
	evt, err := eventbus.NewJSONEvent(payload.ID, payload, 0)
	if err != nil {
		return err
	}
	if err := n.pub.Publish(ctx, n.topic.Base(), evt); err != nil {
		return fmt.Errorf("publish %s: %w", events.ContactSubmitted, err)
	}
	return nil
}
