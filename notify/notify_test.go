package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/hashfx/techblog/eventbus"
	"github.com/hashfx/techblog/events"
	"github.com/hashfx/techblog/models"
)

var contact = models.Contact{
	Sno:      3,
	Name:     "Ada",
	Email:    "ada@example.com",
	PhoneNum: "0101234",
	Msg:      "Loved the post",
	Date:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
}

func TestContactEnvelope(t *testing.T) {
	env := ContactEnvelope(contact)

	assert.Equal(t, "New message from: Ada", env.Subject)
	assert.Equal(t, "Loved the post\n0101234", env.Body)
	assert.Equal(t, "ada@example.com", env.ReplyTo)
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.NotifyContact(context.Background(), contact))
}

type mockSender struct {
	mock.Mock
	sent []*mail.Msg
}

func (m *mockSender) DialAndSendWithContext(ctx context.Context, msgs ...*mail.Msg) error {
	m.sent = append(m.sent, msgs...)
	return m.Called(ctx).Error(0)
}

func TestSMTPNotifierSendsContactMail(t *testing.T) {
	sender := new(mockSender)
	sender.On("DialAndSendWithContext", mock.Anything).Return(nil).Once()

	n := NewSMTPNotifierWithSender(sender, "owner@example.com", "")
	require.NoError(t, n.NotifyContact(context.Background(), contact))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"New message from: Ada"}, msg.GetGenHeader(mail.HeaderSubject))
	assert.Contains(t, strings.Join(msg.GetGenHeader(mail.HeaderReplyTo), ","), "ada@example.com")

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com"}, rcpts)
	sender.AssertExpectations(t)
}

func TestSMTPNotifierRejectsBadAddress(t *testing.T) {
	sender := new(mockSender)
	n := NewSMTPNotifierWithSender(sender, "not an address", "")

	err := n.NotifyContact(context.Background(), contact)
	assert.Error(t, err)
	sender.AssertNotCalled(t, "DialAndSendWithContext", mock.Anything)
}

func TestSMTPNotifierOpensCircuitAfterConsecutiveFailures(t *testing.T) {
	sender := new(mockSender)
	sender.On("DialAndSendWithContext", mock.Anything).Return(errors.New("connection refused"))

	n := NewSMTPNotifierWithSender(sender, "owner@example.com", "owner@example.com")
	for i := 0; i < 3; i++ {
		err := n.NotifyContact(context.Background(), contact)
		assert.ErrorContains(t, err, "connection refused")
	}

	err := n.NotifyContact(context.Background(), contact)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	sender.AssertNumberOfCalls(t, "DialAndSendWithContext", 3)
}

type fakePublisher struct {
	topic string
	event eventbus.Event
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, evt eventbus.Event) error {
	f.topic = topic
	f.event = evt
	return f.err
}

func TestKafkaNotifierPublishesContactEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewKafkaNotifier(pub, eventbus.ContactTopic(""), "techblog")

	require.NoError(t, n.NotifyContact(context.Background(), contact))
	assert.Equal(t, "techblog.contact.events", pub.topic)

	got, err := eventbus.DecodeJSON[events.ContactSubmittedEvent](pub.event)
	require.NoError(t, err)
	assert.Equal(t, events.ContactSubmitted, got.Type)
	assert.Equal(t, got.ID, pub.event.ID)
	assert.Equal(t, contact, got.Contact())
}

func TestKafkaNotifierWrapsPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	n := NewKafkaNotifier(pub, eventbus.NewTopic("t"), "techblog")

	err := n.NotifyContact(context.Background(), contact)
	assert.ErrorContains(t, err, "broker down")
}
