package types

// AccountInfo 单账户查询结果，账户不存在时 Exists=false
type AccountInfo struct {
	Exists   bool
	Lamports uint64
	Owner    Pubkey
	Data     []byte
}

// SimulateResult simulateTransaction 的结果，不改变链上状态
type SimulateResult struct {
	Success bool
	Err     string
	Logs    []string
}
