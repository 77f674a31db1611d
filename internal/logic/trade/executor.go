package trade

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/handoff"
	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/pumpfun"
	"pump-sniper-sol/pkg/logger"
)

// Executor 达到门槛后的动作：构建 -> (模拟) -> 交给外部提交方
type Executor struct {
	builder  *Builder
	sink     handoff.Sink
	simulate bool
}

func NewExecutor(builder *Builder, sink handoff.Sink) *Executor {
	return &Executor{
		builder:  builder,
		sink:     sink,
		simulate: builder.conf.Simulate,
	}
}

func (e *Executor) OnEligible(ctx context.Context, cycleID string, asset *core.AssetInfo, curve *pumpfun.BondingCurve) error {
	log := logger.With("cycle_id", cycleID, "mint", asset.Mint.String())

	res, err := e.builder.Build(ctx, asset, curve)
	if err != nil {
		return fmt.Errorf("build %s: %w", asset.Mint, err)
	}
	log.Infof("[Executor] 🛠️ 交易已签名: %s(%s) signature=%s, solIn=%d, estOut=%d, minOut=%d, maxCost=%d, createATA=%v",
		asset.Name, asset.Symbol, res.Signature, res.Quote.SolIn, res.Quote.EstimatedOut,
		res.Quote.MinTokenOut, res.Quote.MaxSolCost, res.CreatesTokenAccount)

	raw, err := res.Tx.Serialize()
	if err != nil {
		return errs.Buildf("serialize %s: %w", res.Signature, err)
	}

	ticket := &handoff.Ticket{
		CycleID:           cycleID,
		Mint:              asset.Mint.String(),
		Pool:              asset.Pool.String(),
		Name:              asset.Name,
		Symbol:            asset.Symbol,
		Creator:           asset.Creator.String(),
		BuyerTokenAccount: res.BuyerTokenAccount.String(),
		SolIn:             res.Quote.SolIn,
		EstimatedTokens:   res.Quote.EstimatedOut,
		MinTokens:         res.Quote.MinTokenOut,
		MaxSolCost:        res.Quote.MaxSolCost,
		Signature:         res.Signature,
		TxBase64:          base64.StdEncoding.EncodeToString(raw),
		CreatedAt:         time.Now(),
	}

	if e.simulate {
		sim, err := e.builder.Simulate(ctx, res)
		if err != nil {
			return err
		}
		ticket.Simulated = true
		ticket.SimulationOK = sim.Success
		ticket.SimulationErr = sim.Err
		if sim.Success {
			log.Infof("[Executor] ✅ 模拟成功: signature=%s, logs=%d", res.Signature, len(sim.Logs))
		} else {
			log.Warnf("[Executor] ❌ 模拟失败: signature=%s, err=%s", res.Signature, sim.Err)
		}
		for _, line := range sim.Logs {
			log.Debugf("[Executor]   %s", line)
		}
	}

	if err := e.sink.Publish(ctx, ticket); err != nil {
		return fmt.Errorf("handoff %s: %w", res.Signature, err)
	}
	return nil
}
