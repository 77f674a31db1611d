package handoff

import (
	"context"
	"fmt"
	"time"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/mq"
	"pump-sniper-sol/internal/types"
	"pump-sniper-sol/internal/utils"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaSink 每个 ticket 一条消息，按 mint 分区
type KafkaSink struct {
	producer    *kafka.Producer
	sender      mq.Producer
	topic       string
	partitions  int
	sendTimeout time.Duration
}

func NewKafkaSink(c config.KafkaProducerConfig) (*KafkaSink, error) {
	producer, err := mq.NewKafkaProducer(c)
	if err != nil {
		return nil, err
	}
	return &KafkaSink{
		producer:    producer,
		sender:      producer,
		topic:       c.Topic,
		partitions:  c.Partitions,
		sendTimeout: time.Duration(c.SendTimeoutMs) * time.Millisecond,
	}, nil
}

func (s *KafkaSink) Publish(ctx context.Context, t *Ticket) error {
	job, err := s.buildJob(t)
	if err != nil {
		return err
	}
	return mq.SendKafkaJob(ctx, s.sender, job, s.sendTimeout)
}

func (s *KafkaSink) buildJob(t *Ticket) (*mq.KafkaJob, error) {
	msg, err := t.ToStruct()
	if err != nil {
		return nil, fmt.Errorf("ticket to struct: %w", err)
	}
	value, err := utils.EncodeEvent(TicketEventType, msg)
	if err != nil {
		return nil, err
	}

	mint, err := types.TryPubkeyFromBase58(t.Mint)
	if err != nil {
		return nil, fmt.Errorf("ticket mint: %w", err)
	}
	return &mq.KafkaJob{
		Topic:     s.topic,
		Partition: utils.PartitionForPubkey(mint, s.partitions),
		Key:       mint[:],
		Value:     value,
	}, nil
}

func (s *KafkaSink) Close() {
	if s.producer != nil {
		s.producer.Flush(5000)
		s.producer.Close()
	}
}
