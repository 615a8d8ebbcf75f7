package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// EnsureTopics는 기본 토픽, 재시도 토픽, DLQ 토픽을 만든다.
// 이미 있는 토픽은 성공으로 간주한다.
func EnsureTopics(ctx context.Context, brokers string, topic Topic, basePartitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{"bootstrap.servers": brokers})
	if err != nil {
		return fmt.Errorf("create kafka admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, TopicSpecs(topic, basePartitions))
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("create topic %s: %v", r.Topic, r.Error)
		}
	}
	return nil
}

// TopicSpecs lists the topics a Topic needs. The DLQ gets a single partition.
func TopicSpecs(topic Topic, basePartitions int) []kafka.TopicSpecification {
	if basePartitions <= 0 {
		basePartitions = 1
	}
	specs := []kafka.TopicSpecification{
		{Topic: topic.Base(), NumPartitions: basePartitions, ReplicationFactor: 1},
		{Topic: topic.DLQ(), NumPartitions: 1, ReplicationFactor: 1},
	}
	for _, rt := range topic.RetryTopics() {
		specs = append(specs, kafka.TopicSpecification{Topic: rt, NumPartitions: basePartitions, ReplicationFactor: 1})
	}
	return specs
}
