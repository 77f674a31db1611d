package trade

import (
	"pump-sniper-sol/internal/consts"
)

// Quote 买入报价，全部为最小单位
type Quote struct {
	SolIn        uint64 // 投入 lamports
	EstimatedOut uint64 // 未扣滑点的预估 token 数量
	MinTokenOut  uint64 // 扣除滑点后的最少 token 数量
	MaxSolCost   uint64 // SolIn 放宽 2%
}

// ComputeQuote 恒定乘积公式，double 精度计算后截断为整数（不四舍五入）：
//
//	out    = vToken * solIn / (vSol + solIn)
//	minOut = out * (1 - slippageBps/10000)
func ComputeQuote(virtualTokenReserves, virtualSolReserves, solIn, slippageBps uint64) Quote {
	out := float64(virtualTokenReserves) * float64(solIn) / (float64(virtualSolReserves) + float64(solIn))
	minOut := out * (1 - float64(slippageBps)/consts.BpsDenominator)
	maxCost := float64(solIn) * (1 + float64(consts.BuyFeeSafetyBps)/consts.BpsDenominator)

	return Quote{
		SolIn:        solIn,
		EstimatedOut: uint64(out),
		MinTokenOut:  uint64(minOut),
		MaxSolCost:   uint64(maxCost),
	}
}
