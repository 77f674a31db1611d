package consts

const (
	// LamportsPerSOL SOL 精度固定为 9
	LamportsPerSOL uint64 = 1_000_000_000

	// BpsDenominator 滑点基点分母
	BpsDenominator = 10_000
)
