package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"github.com/hashfx/techblog/internal/logger"
)

// KafkaEventBus는 confluent-kafka-go 기반 EventBus 구현체다.
type KafkaEventBus struct {
	producer *kafka.Producer
	brokers  string
}

func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	// 전달 보고서 중 Publish 가 기다리지 않는 것(예: 에러 이벤트)을 기록한다.
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("kafka delivery failed", logger.Fields{
						"topic": topicName(ev), "error": ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("kafka error", logger.Fields{"error": ev.Error()})
			}
		}
	}()

	return &KafkaEventBus{producer: p, brokers: brokers}, nil
}

// Close flushes pending messages for up to 5s and closes the producer.
func (k *KafkaEventBus) Close() {
	if k.producer == nil {
		return
	}
	if remaining := k.producer.Flush(5000); remaining > 0 {
		logger.WarnWithFields("kafka producer closed with unflushed messages", logger.Fields{"remaining": remaining})
	}
	k.producer.Close()
	logger.Log.Info("kafka producer closed")
}

// Publish는 이벤트를 발행하고 브로커의 전달 보고서를 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	delivery := make(chan kafka.Event, 1)
	err = k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          data,
	}, delivery)
	if err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}

	select {
	case ev := <-delivery:
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			return fmt.Errorf("deliver to %s: %w", topic, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *KafkaEventBus) newConsumer(groupID string) (*kafka.Consumer, error) {
	return kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // 재시도/DLQ 발행이 끝난 뒤에만 커밋한다
		"partition.assignment.strategy": "range",
	})
}

// Subscribe는 기본 토픽을 구독해 handler를 실행한다.
// 실패한 이벤트는 Route 에 따라 재시도 토픽 또는 DLQ 로 발행하고,
// 발행까지 성공해야 오프셋을 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic.Base(), err)
	}
	logger.InfoWithFields("consumer started", logger.Fields{"group_id": groupID, "topic": topic.Base()})

	for {
		if ctx.Err() != nil {
			logger.Log.Info("consumer stopping")
			return ctx.Err()
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			if fatal := readError(err); fatal != nil {
				return fatal
			}
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("undecodable event skipped", logger.Fields{"topic": topicName(msg), "error": err.Error()})
			_, _ = c.CommitMessage(msg)
			continue
		}

		fields := logger.Fields{"event_id": evt.ID, "topic": topicName(msg), "retry": evt.Retry}
		logger.DebugWithFields("handling event", fields)

		if herr := handler(ctx, evt); herr != nil {
			dest, routed := Route(topic, evt, herr)
			fields["error"] = herr.Error()
			fields["destination"] = dest
			logger.WarnWithFields("event handler failed", fields)

			if perr := k.Publish(ctx, dest, routed); perr != nil {
				// 커밋하지 않으면 같은 메시지를 다시 받는다.
				logger.ErrorWithFields("failed to reroute event, offset not committed", logger.Fields{
					"event_id": evt.ID, "destination": dest, "error": perr.Error(),
				})
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			logger.ErrorWithFields("offset commit failed", logger.Fields{"event_id": evt.ID, "error": err.Error()})
		}
	}
}

// StartRetryReinjector는 모든 재시도 토픽을 구독해, 토픽 이름의 지연 시간이 지난
// 메시지를 기본 토픽으로 재발행한다. 아직 준비되지 않은 메시지는 커밋하지 않고
// 해당 파티션만 그 오프셋으로 되감은 뒤 만료 시각까지 일시정지한다.
// 다른 재시도 토픽의 파티션은 계속 소비된다.
func (k *KafkaEventBus) StartRetryReinjector(ctx context.Context, groupID string, topic Topic) error {
	c, err := k.newConsumer(groupID)
	if err != nil {
		return fmt.Errorf("create retry consumer: %w", err)
	}
	defer c.Close()

	retryTopics := topic.RetryTopics()
	if err := c.SubscribeTopics(retryTopics, nil); err != nil {
		return fmt.Errorf("subscribe %v: %w", retryTopics, err)
	}
	logger.InfoWithFields("retry reinjector started", logger.Fields{"group_id": groupID, "topics": retryTopics})

	gate := newPartitionGate()
	for {
		if ctx.Err() != nil {
			logger.Log.Info("retry reinjector stopping")
			return ctx.Err()
		}

		if due := gate.release(time.Now()); len(due) > 0 {
			if err := c.Resume(due); err != nil {
				// 리밸런스로 회수된 파티션이면 새 할당에서 다시 읽힌다.
				logger.WarnWithFields("resume failed", logger.Fields{"partitions": len(due), "error": err.Error()})
			}
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			if fatal := readError(err); fatal != nil {
				return fatal
			}
			continue
		}

		name := topicName(msg)
		delay, ok := RetryDelayFromTopic(name)
		if !ok {
			logger.ErrorWithFields("unparseable retry topic, message skipped", logger.Fields{"topic": name})
			_, _ = c.CommitMessage(msg)
			continue
		}

		if readyAt := msg.Timestamp.Add(delay); time.Now().Before(readyAt) {
			tp := msg.TopicPartition
			if err := c.Pause([]kafka.TopicPartition{tp}); err != nil {
				logger.ErrorWithFields("pause failed", logger.Fields{"topic": name, "error": err.Error()})
				continue
			}
			if err := c.Seek(tp, 0); err != nil {
				logger.ErrorWithFields("seek failed", logger.Fields{"topic": name, "error": err.Error()})
			}
			gate.hold(tp, readyAt)
			logger.DebugWithFields("retry partition paused", logger.Fields{
				"topic": name, "partition": tp.Partition, "resume_at": readyAt.Format(time.RFC3339),
			})
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			logger.ErrorWithFields("undecodable retry event skipped", logger.Fields{"topic": name, "error": err.Error()})
			_, _ = c.CommitMessage(msg)
			continue
		}

		if err := k.Publish(ctx, topic.Base(), evt); err != nil {
			logger.ErrorWithFields("reinjection failed, offset not committed", logger.Fields{"event_id": evt.ID, "error": err.Error()})
			continue
		}
		logger.InfoWithFields("event reinjected", logger.Fields{"event_id": evt.ID, "from": name, "retry": evt.Retry})

		if _, err := c.CommitMessage(msg); err != nil {
			logger.ErrorWithFields("offset commit failed", logger.Fields{"event_id": evt.ID, "error": err.Error()})
		}
	}
}

type partitionKey struct {
	topic     string
	partition int32
}

// partitionGate 는 일시정지한 재시도 파티션과 재개 시각을 기억한다.
type partitionGate struct {
	held map[partitionKey]heldPartition
}

type heldPartition struct {
	tp      kafka.TopicPartition
	readyAt time.Time
}

func newPartitionGate() *partitionGate {
	return &partitionGate{held: map[partitionKey]heldPartition{}}
}

func (g *partitionGate) hold(tp kafka.TopicPartition, readyAt time.Time) {
	key := partitionKey{partition: tp.Partition}
	if tp.Topic != nil {
		key.topic = *tp.Topic
	}
	g.held[key] = heldPartition{tp: tp, readyAt: readyAt}
}

// release 는 재개 시각이 지난 파티션을 꺼내 반환한다.
func (g *partitionGate) release(now time.Time) []kafka.TopicPartition {
	var due []kafka.TopicPartition
	for key, h := range g.held {
		if !now.Before(h.readyAt) {
			due = append(due, h.tp)
			delete(g.held, key)
		}
	}
	return due
}

// readError returns a non-nil error only for fatal consumer errors.
func readError(err error) error {
	var kerr kafka.Error
	if errors.As(err, &kerr) {
		if kerr.Code() == kafka.ErrTimedOut {
			return nil
		}
		if kerr.IsFatal() {
			return fmt.Errorf("fatal kafka consumer error: %w", err)
		}
	}
	logger.ErrorWithFields("kafka read failed", logger.Fields{"error": err.Error()})
	return nil
}

func topicName(m *kafka.Message) string {
	if m == nil || m.TopicPartition.Topic == nil {
		return ""
	}
	return *m.TopicPartition.Topic
}
