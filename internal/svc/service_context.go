package svc

import (
	"context"
	"time"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/handoff"
	"pump-sniper-sol/internal/logic/eligibility"
	"pump-sniper-sol/internal/logic/grpc"
	"pump-sniper-sol/internal/logic/monitor"
	"pump-sniper-sol/internal/logic/trade"
	"pump-sniper-sol/internal/service"
	"pump-sniper-sol/pkg/logger"
)

// ServiceContext 进程级共享资源，启动时构造一次
type ServiceContext struct {
	Config    config.SniperConfig
	Stream    *grpc.StreamClient
	Rpc       *service.RpcClient
	Evaluator *eligibility.Evaluator
	Builder   *trade.Builder
	Sink      handoff.Sink
	Batch     *monitor.PendingBatch
}

// NewServiceContext 任一依赖初始化失败都返回 ErrStartup，由调用方退出进程
func NewServiceContext(ctx context.Context, c config.SniperConfig) (*ServiceContext, error) {
	rpc := service.NewRpcClient(c.Rpc)

	// 1. 启动价格：只取一次，之后整个进程复用
	oracle := service.NewPriceOracle(c.PriceOracle, rpc)
	price, err := service.FetchStartupPrice(ctx, oracle, time.Duration(c.PriceOracle.TimeoutSec)*time.Second)
	if err != nil {
		return nil, err
	}
	evaluator, err := eligibility.NewEvaluator(price, c.Trade.MinMarketCapUsd)
	if err != nil {
		return nil, err
	}

	// 2. 签名与构建
	builder, err := trade.NewBuilder(rpc, c.Trade)
	if err != nil {
		return nil, err
	}

	// 3. 出口
	sink, err := handoff.NewSink(c.Handoff)
	if err != nil {
		return nil, errs.Startupf("handoff sink %s: %w", c.Handoff.Sink, err)
	}

	// 4. gRPC 连接，交易流与账户流共用
	stream, err := grpc.NewStreamClient(c.Grpc)
	if err != nil {
		sink.Close()
		return nil, errs.Startupf("grpc stream: %w", err)
	}

	logger.Infof("服务上下文初始化完成: buyer=%s, SOL/USD=%.4f, threshold=%.4f SOL, layout=%s, sink=%s",
		builder.Buyer(), price, evaluator.Evaluate(0).ThresholdSol, c.Trade.ProgramLayout, c.Handoff.Sink)

	return &ServiceContext{
		Config:    c,
		Stream:    stream,
		Rpc:       rpc,
		Evaluator: evaluator,
		Builder:   builder,
		Sink:      sink,
		Batch:     monitor.NewPendingBatch(c.Window.SeenMintTTL()),
	}, nil
}

// Close 关闭服务上下文中的资源
func (ctx *ServiceContext) Close() {
	if ctx.Sink != nil {
		ctx.Sink.Close()
	}
	if ctx.Stream != nil {
		if err := ctx.Stream.Close(); err != nil {
			logger.Warnf("关闭 gRPC 连接失败: %v", err)
		}
	}
}
