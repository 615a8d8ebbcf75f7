package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/events"
	"github.com/hashfx/techblog/models"
)

type fakeNotifier struct {
	got []models.Contact
	err error
}

func (f *fakeNotifier) NotifyContact(_ context.Context, c models.Contact) error {
	f.got = append(f.got, c)
	return f.err
}

func TestDeliverContact(t *testing.T) {
	n := &fakeNotifier{}
	evt := events.NewContactSubmittedEvent(models.Contact{Sno: 7, Name: "Ada", Email: "ada@example.com", Msg: "hi"}, "test")

	err := deliverContact(n)(context.Background(), evt, eventbus.Event{ID: evt.ID})
	require.NoError(t, err)
	require.Len(t, n.got, 1)
	assert.Equal(t, int64(7), n.got[0].Sno)
	assert.Equal(t, "ada@example.com", n.got[0].Email)
}

func TestDeliverContactFailureIsReturnedForRetry(t *testing.T) {
	smtpErr := errors.New("dial tcp: timeout")
	n := &fakeNotifier{err: smtpErr}
	evt := events.NewContactSubmittedEvent(models.Contact{Sno: 3}, "test")

	err := deliverContact(n)(context.Background(), evt, eventbus.Event{ID: evt.ID})
	assert.ErrorIs(t, err, smtpErr)

	dest, routed := eventbus.Route(eventbus.ContactTopic(""), eventbus.Event{ID: evt.ID}, err)
	assert.Equal(t, "techblog.contact.events.retry.10s", dest)
	assert.Equal(t, 1, routed.Retry)
}

func TestDeliverContactSkipsUnknownType(t *testing.T) {
	n := &fakeNotifier{}
	evt := events.ContactSubmittedEvent{BaseEvent: events.BaseEvent{Type: "post.created"}}

	require.NoError(t, deliverContact(n)(context.Background(), evt, eventbus.Event{}))
	assert.Empty(t, n.got)
}
