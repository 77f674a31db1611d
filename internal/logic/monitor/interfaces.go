package monitor

import (
	"context"

	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/pumpfun"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// Subscriber 订阅流；返回的 channel 关闭即表示流结束
type Subscriber interface {
	Subscribe(ctx context.Context, name string, req *pb.SubscribeRequest) (<-chan *pb.SubscribeUpdate, error)
}

// CycleRunner 对一个批次执行一次完整的 WATCHING 阶段
type CycleRunner interface {
	Watch(ctx context.Context, batch []*core.AssetInfo) error
}

// Trigger 达到门槛后调用，每个 mint 每轮最多一次
type Trigger interface {
	OnEligible(ctx context.Context, cycleID string, asset *core.AssetInfo, curve *pumpfun.BondingCurve) error
}
