package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RetryDelays는 재시도 횟수(1-based)별 지연 시간이다. 길이가 곧 최대 재시도 횟수다.
var RetryDelays = []time.Duration{
	10 * time.Second,
	1 * time.Minute,
	5 * time.Minute,
}

// Topic은 기본 토픽 이름에서 재시도/DLQ 토픽 이름을 파생한다.
//
//	techblog.contact.events            기본
//	techblog.contact.events.retry.10s  재시도 (RetryDelays 별 하나)
//	techblog.contact.events.dlq        DLQ
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string { return t.base }

func (t Topic) DLQ() string { return t.base + ".dlq" }

// RetryTopics returns every retry topic in delay order.
func (t Topic) RetryTopics() []string {
	topics := make([]string, len(RetryDelays))
	for i, delay := range RetryDelays {
		topics[i] = t.retryTopicFor(delay)
	}
	return topics
}

// RetryTopic returns the topic for the given 1-based retry attempt.
func (t Topic) RetryTopic(attempt int) (string, error) {
	if attempt <= 0 || attempt > len(RetryDelays) {
		return "", ErrMaxRetryExceeded
	}
	return t.retryTopicFor(RetryDelays[attempt-1]), nil
}

func (t Topic) retryTopicFor(delay time.Duration) string {
	return fmt.Sprintf("%s.retry.%s", t.base, delay.String())
}

// Event는 Kafka 메시지 값으로 직렬화되는 봉투(envelope)다.
type Event struct {
	ID        string          `json:"id"`
	Payload   json.RawMessage `json:"payload"`
	Retry     int             `json:"retry"`
	MaxRetry  int             `json:"max_retry"`
	LastError string          `json:"last_error,omitempty"`
}

type EventHandler func(ctx context.Context, event Event) error

// Publisher is the producing half of the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

type EventBus interface {
	Publisher
	// Subscribe는 기본 토픽을 구독한다. 핸들러 실패 시 재시도 토픽 또는 DLQ 로 보낸다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
	// StartRetryReinjector는 재시도 토픽의 메시지를 지연 시간이 지난 뒤 기본 토픽으로 되돌린다.
	StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error
	Close()
}

var ErrMaxRetryExceeded = errors.New("max retry exceeded")

// Route decides where a failed event goes next: the retry topic for its next
// attempt, or the DLQ once the event has used MaxRetry attempts.
// The returned event carries the incremented Retry and LastError.
func Route(topic Topic, evt Event, handlerErr error) (string, Event) {
	evt.LastError = handlerErr.Error()
	maxRetry := evt.MaxRetry
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	next := evt.Retry + 1
	if next > maxRetry {
		return topic.DLQ(), evt
	}
	dest, err := topic.RetryTopic(next)
	if err != nil {
		return topic.DLQ(), evt
	}
	evt.Retry = next
	return dest, evt
}

// RetryDelayFromTopic parses the delay suffix of a retry topic name.
// 예: "techblog.contact.events.retry.1m0s" -> 1m0s
func RetryDelayFromTopic(name string) (time.Duration, bool) {
	const marker = ".retry."
	idx := strings.LastIndex(name, marker)
	if idx == -1 || idx+len(marker) >= len(name) {
		return 0, false
	}
	d, err := time.ParseDuration(name[idx+len(marker):])
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
