package handoff

import (
	"context"
	"fmt"
	"time"

	"pump-sniper-sol/internal/config"

	"github.com/redis/go-redis/v9"
	"google.golang.org/protobuf/encoding/protojson"
)

// Redis key 前缀
const ticketPrefix = "pump:sniper:ticket"

// RedisSink ticket 写入带 TTL 的 key，同时把 signature 推入队列供提交方消费
type RedisSink struct {
	rdb   *redis.Client
	queue string
	ttl   time.Duration
}

func NewRedisSink(c config.RedisConfig) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", c.Addr, err)
	}
	return newRedisSink(rdb, c), nil
}

func newRedisSink(rdb *redis.Client, c config.RedisConfig) *RedisSink {
	return &RedisSink{
		rdb:   rdb,
		queue: c.Queue,
		ttl:   time.Duration(c.TicketTTL) * time.Second,
	}
}

// ticketKey 构造 Redis key，按交易签名区分
func ticketKey(signature string) string {
	return fmt.Sprintf("%s:%s", ticketPrefix, signature)
}

// Publish 同一签名只入队一次
func (s *RedisSink) Publish(ctx context.Context, t *Ticket) error {
	msg, err := t.ToStruct()
	if err != nil {
		return fmt.Errorf("ticket to struct: %w", err)
	}
	body, err := protojson.Marshal(msg)
	if err != nil {
		return fmt.Errorf("ticket marshal: %w", err)
	}

	key := ticketKey(t.Signature)
	ok, err := s.rdb.SetNX(ctx, key, body, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis setnx error: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.rdb.LPush(ctx, s.queue, t.Signature).Err(); err != nil {
		return fmt.Errorf("redis lpush error: %w", err)
	}
	return nil
}

func (s *RedisSink) Close() {
	_ = s.rdb.Close()
}
