package main

import (
	"context"
	"fmt"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/events"
	"github.com/hashfx/techblog/notify"
)

// deliverContact 는 contact.submitted 이벤트를 메일로 전달한다.
// 에러를 반환하면 이벤트 버스가 재시도 토픽 또는 DLQ 로 보낸다.
func deliverContact(n notify.Notifier) func(ctx context.Context, evt events.ContactSubmittedEvent, meta eventbus.Event) error {
	return func(ctx context.Context, evt events.ContactSubmittedEvent, meta eventbus.Event) error {
		if evt.Type != events.ContactSubmitted {
			logger.WarnWithFields("skipping unexpected event type", logger.Fields{"event_id": meta.ID, "type": evt.Type})
			return nil
		}

		fields := logger.Fields{
			"event_id":    meta.ID,
			"contact_sno": evt.ContactSno,
			"retry":       meta.Retry,
		}
		if err := n.NotifyContact(ctx, evt.Contact()); err != nil {
			fields["error"] = err.Error()
			logger.ErrorWithFields("contact delivery failed", fields)
			return fmt.Errorf("deliver contact %d: %w", evt.ContactSno, err)
		}
		logger.InfoWithFields("contact delivered", fields)
		return nil
	}
}
