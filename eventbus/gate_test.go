package eventbus

import (
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(topic string, partition int32) kafka.TopicPartition {
	return kafka.TopicPartition{Topic: &topic, Partition: partition, Offset: 42}
}

func TestPartitionGateReleasesOnlyDuePartitions(t *testing.T) {
	topic := ContactTopic("")
	short, err := topic.RetryTopic(1)
	require.NoError(t, err)
	long, err := topic.RetryTopic(3)
	require.NoError(t, err)

	now := time.Now()
	gate := newPartitionGate()
	gate.hold(tp(long, 0), now.Add(5*time.Minute))
	gate.hold(tp(short, 0), now.Add(10*time.Second))

	assert.Empty(t, gate.release(now))

	due := gate.release(now.Add(10 * time.Second))
	require.Len(t, due, 1)
	assert.Equal(t, short, *due[0].Topic)
	assert.Equal(t, kafka.Offset(42), due[0].Offset)

	// the long-delay partition stays paused while the short one is back
	assert.Empty(t, gate.release(now.Add(time.Minute)))

	due = gate.release(now.Add(5 * time.Minute))
	require.Len(t, due, 1)
	assert.Equal(t, long, *due[0].Topic)
	assert.Empty(t, gate.release(now.Add(time.Hour)))
}

func TestPartitionGateKeepsLatestHoldPerPartition(t *testing.T) {
	now := time.Now()
	gate := newPartitionGate()
	gate.hold(tp("a.retry.1m0s", 1), now.Add(time.Minute))
	gate.hold(tp("a.retry.1m0s", 1), now.Add(2*time.Minute))
	gate.hold(tp("a.retry.1m0s", 2), now.Add(time.Minute))

	due := gate.release(now.Add(time.Minute))
	require.Len(t, due, 1)
	assert.Equal(t, int32(2), due[0].Partition)
	assert.Len(t, gate.release(now.Add(2*time.Minute)), 1)
}
