package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// NewJSONEvent는 payload를 JSON으로 인코딩해 Event를 만든다.
// id가 비어 있으면 uuid를 발급한다.
func NewJSONEvent(id string, payload any, maxRetry int) (Event, error) {
	if maxRetry <= 0 || maxRetry > len(RetryDelays) {
		maxRetry = len(RetryDelays)
	}
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Event{ID: id, Payload: b, MaxRetry: maxRetry}, nil
}

// DecodeJSON은 Event.Payload를 T로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("unmarshal payload: %w", err)
	}
	return out, nil
}

// SubscribeJSON은 payload 디코딩을 대신해주는 Subscribe 헬퍼다.
// 디코딩 실패도 핸들러 실패로 취급되어 재시도/DLQ 경로를 탄다.
func SubscribeJSON[T any](ctx context.Context, bus EventBus, groupID string, topic Topic, handler func(ctx context.Context, payload T, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		v, err := DecodeJSON[T](evt)
		if err != nil {
			return err
		}
		return handler(ctx, v, evt)
	})
}
