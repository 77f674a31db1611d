package monitor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/eligibility"
	"pump-sniper-sol/internal/logic/grpc"
	"pump-sniper-sol/internal/logic/pumpfun"
	"pump-sniper-sol/internal/types"
	"pump-sniper-sol/pkg/logger"

	"github.com/google/uuid"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"go.uber.org/zap"
)

const accountStreamName = "account_watch"

// AccountWatcher 每个批次开一条账户订阅，监控 bonding curve 直到窗口结束
type AccountWatcher struct {
	subscriber  Subscriber
	evaluator   *eligibility.Evaluator
	trigger     Trigger
	watchDur    time.Duration
	pollTimeout time.Duration
}

func NewAccountWatcher(
	subscriber Subscriber,
	evaluator *eligibility.Evaluator,
	trigger Trigger,
	watchDur, pollTimeout time.Duration,
) *AccountWatcher {
	return &AccountWatcher{
		subscriber:  subscriber,
		evaluator:   evaluator,
		trigger:     trigger,
		watchDur:    watchDur,
		pollTimeout: pollTimeout,
	}
}

// watchCycle 单轮 WATCHING 的状态，found 每轮重置
type watchCycle struct {
	id     string
	log    *zap.SugaredLogger
	byPool map[types.Pubkey]*core.AssetInfo
	found  map[types.Pubkey]struct{}
}

// Watch 阻塞直到 watchDur 到期或账户流提前结束；订阅失败返回错误
func (w *AccountWatcher) Watch(ctx context.Context, batch []*core.AssetInfo) error {
	cycle := &watchCycle{
		id:     uuid.NewString(),
		byPool: make(map[types.Pubkey]*core.AssetInfo, len(batch)),
		found:  make(map[types.Pubkey]struct{}, len(batch)),
	}
	cycle.log = logger.With("cycle_id", cycle.id)

	pools := make([]string, 0, len(batch))
	for _, asset := range batch {
		if _, ok := cycle.byPool[asset.Pool]; ok {
			continue
		}
		cycle.byPool[asset.Pool] = asset
		pools = append(pools, asset.Pool.String())
	}

	start := time.Now()
	subCtx, cancel := context.WithDeadline(ctx, start.Add(w.watchDur))
	defer cancel()

	req := grpc.NewAccountSubscribeRequest(pools, consts.PumpFunProgramStr)
	updates, err := w.subscriber.Subscribe(subCtx, accountStreamName, req)
	if err != nil {
		return fmt.Errorf("subscribe %d bonding curves: %w", len(pools), err)
	}
	cycle.log.Infof("[AccountWatcher] 👀 开始监控 %d 个 bonding curve，窗口 %v", len(pools), w.watchDur)

	for time.Since(start) < w.watchDur {
		select {
		case update, ok := <-updates:
			if !ok {
				if subCtx.Err() == nil {
					cycle.log.Infof("[AccountWatcher] 账户流提前结束，本轮结束 (elapsed=%v)", time.Since(start).Round(time.Millisecond))
				}
				return nil
			}
			w.handleUpdate(ctx, cycle, update)
		case <-time.After(w.pollTimeout):
		}
	}

	cycle.log.Infof("[AccountWatcher] ⏱️ 窗口结束，本轮触发 %d/%d", len(cycle.found), len(cycle.byPool))
	return nil
}

// handleUpdate 单条账户推送出错只影响自身
func (w *AccountWatcher) handleUpdate(ctx context.Context, cycle *watchCycle, update *pb.SubscribeUpdate) {
	defer func() {
		if r := recover(); r != nil {
			cycle.log.Errorf("[AccountWatcher] panic: %v, stack=%s", r, debug.Stack())
		}
	}()

	info := update.GetAccount().GetAccount()
	if info == nil {
		return
	}
	pool, err := types.TryPubkeyFromBytes(info.Pubkey)
	if err != nil {
		cycle.log.Warnf("[AccountWatcher] 非法账户地址: %v", err)
		return
	}
	asset, ok := cycle.byPool[pool]
	if !ok {
		return
	}
	if _, done := cycle.found[asset.Mint]; done {
		return
	}

	curve, err := pumpfun.DecodeBondingCurve(info.Data)
	if err != nil {
		cycle.log.Warnf("[AccountWatcher] 解析 bonding curve 失败: pool=%s, err=%v", pool, err)
		return
	}

	decision := w.evaluator.Evaluate(curve.VirtualSolReserves)
	cycle.log.Infof("[AccountWatcher] %s(%s) %s", asset.Name, asset.Symbol, decision)
	if !decision.Eligible {
		return
	}

	cycle.found[asset.Mint] = struct{}{}
	cycle.log.Infof("[AccountWatcher] 🎯 达到门槛，开始构建买入交易: mint=%s", asset.Mint)
	if err := w.trigger.OnEligible(ctx, cycle.id, asset, curve); err != nil {
		cycle.log.Errorf("[AccountWatcher] 构建买入交易失败: mint=%s, err=%v", asset.Mint, err)
	}
}
