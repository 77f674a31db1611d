package eligibility

import (
	"fmt"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
)

// Decision 单次评估结果，日志由调用方负责
type Decision struct {
	MarketCapSol float64 // virtual_sol_reserves / 1e9
	MarketCapUsd float64
	ThresholdSol float64 // minMarketCapUsd / priceUsd
	Eligible     bool
}

func (d Decision) String() string {
	return fmt.Sprintf("mc=%.4f SOL ($%.2f), threshold=%.4f SOL, eligible=%v",
		d.MarketCapSol, d.MarketCapUsd, d.ThresholdSol, d.Eligible)
}

// Evaluator 启动时固定 SOL/USD 价格，之后只读
type Evaluator struct {
	priceUsd        float64
	minMarketCapUsd float64
}

func NewEvaluator(priceUsd, minMarketCapUsd float64) (*Evaluator, error) {
	if priceUsd <= 0 {
		return nil, errs.Startupf("invalid SOL/USD price: %v", priceUsd)
	}
	return &Evaluator{priceUsd: priceUsd, minMarketCapUsd: minMarketCapUsd}, nil
}

func (e *Evaluator) PriceUsd() float64 {
	return e.priceUsd
}

// Evaluate 市值（SOL 计价）>= 门槛即通过，边界值视为通过
func (e *Evaluator) Evaluate(virtualSolReserves uint64) Decision {
	mcSol := float64(virtualSolReserves) / float64(consts.LamportsPerSOL)
	threshold := e.minMarketCapUsd / e.priceUsd
	return Decision{
		MarketCapSol: mcSol,
		MarketCapUsd: mcSol * e.priceUsd,
		ThresholdSol: threshold,
		Eligible:     mcSol >= threshold,
	}
}
