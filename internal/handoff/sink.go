package handoff

import (
	"context"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/pkg/logger"
)

// Sink 已签名交易的出口
type Sink interface {
	Publish(ctx context.Context, ticket *Ticket) error
	Close()
}

// NewSink 按配置选择出口，默认只打印日志
func NewSink(c config.HandoffConfig) (Sink, error) {
	switch c.Sink {
	case "kafka":
		return NewKafkaSink(c.Kafka)
	case "redis":
		return NewRedisSink(c.Redis)
	default:
		return LogSink{}, nil
	}
}

// LogSink 只记录日志，交由运维手动提交
type LogSink struct{}

func (LogSink) Publish(_ context.Context, t *Ticket) error {
	logger.Infof("[Handoff] 📝 %s(%s) mint=%s signature=%s simulated=%v ok=%v tx=%s",
		t.Name, t.Symbol, t.Mint, t.Signature, t.Simulated, t.SimulationOK, t.TxBase64)
	return nil
}

func (LogSink) Close() {}
