package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProducer 按 reply 决定 delivery 回调内容，reply 为 nil 时不回调
type fakeProducer struct {
	produceErr error
	reply      func(msg *kafka.Message) kafka.Event
	sent       []*kafka.Message
}

func (f *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if f.produceErr != nil {
		return f.produceErr
	}
	f.sent = append(f.sent, msg)
	if f.reply != nil {
		deliveryChan <- f.reply(msg)
	}
	return nil
}

func testJob() *KafkaJob {
	return &KafkaJob{Topic: "test-topic", Partition: 2, Key: []byte("mint"), Value: []byte("ticket")}
}

func TestSendKafkaJob_Delivered(t *testing.T) {
	p := &fakeProducer{reply: func(msg *kafka.Message) kafka.Event { return msg }}

	require.NoError(t, SendKafkaJob(context.Background(), p, testJob(), time.Second))
	require.Len(t, p.sent, 1)
	assert.Equal(t, "test-topic", *p.sent[0].TopicPartition.Topic)
	assert.Equal(t, int32(2), p.sent[0].TopicPartition.Partition)
	assert.Equal(t, []byte("mint"), p.sent[0].Key)
	assert.Equal(t, []byte("ticket"), p.sent[0].Value)
}

func TestSendKafkaJob_DeliveryError(t *testing.T) {
	deliveryErr := kafka.NewError(kafka.ErrMsgTimedOut, "timed out", false)
	p := &fakeProducer{reply: func(msg *kafka.Message) kafka.Event {
		msg.TopicPartition.Error = deliveryErr
		return msg
	}}

	err := SendKafkaJob(context.Background(), p, testJob(), time.Second)
	assert.Error(t, err)
}

func TestSendKafkaJob_ProduceError(t *testing.T) {
	p := &fakeProducer{produceErr: errors.New("queue full")}
	assert.ErrorContains(t, SendKafkaJob(context.Background(), p, testJob(), time.Second), "queue full")
}

func TestSendKafkaJob_Timeout(t *testing.T) {
	p := &fakeProducer{}
	err := SendKafkaJob(context.Background(), p, testJob(), 20*time.Millisecond)
	assert.ErrorContains(t, err, "delivery timeout")
}

func TestSendKafkaJob_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SendKafkaJob(ctx, &fakeProducer{}, testJob(), time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
