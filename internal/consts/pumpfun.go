package consts

// PumpFun 指令 discriminator（Anchor sighash 前 8 字节，按大端读作 uint64 便于 switch）
const (
	PumpCreate uint64 = 0x181ec828051c0777
	PumpBuy    uint64 = 0x66063d1201daebea
	PumpSell   uint64 = 0x33e685a4017f83ad
)

// PumpFun PDA 种子
const (
	SeedGlobal                  = "global"
	SeedEventAuthority          = "__event_authority"
	SeedBondingCurve            = "bonding-curve"
	SeedCreatorVault            = "creator-vault"
	SeedGlobalVolumeAccumulator = "global_volume_accumulator"
	SeedUserVolumeAccumulator   = "user_volume_accumulator"
	SeedFeeConfig               = "fee_config"
)

const (
	// GlobalFeeRecipientOffset Global 账户中 fee_recipient 的偏移：
	// 8 字节账户 tag + 1 字节 initialized + 32 字节 authority
	GlobalFeeRecipientOffset = 41

	// BuyFeeSafetyBps 买入时 max_sol_cost 额外放宽 2%，容忍协议侧手续费波动
	BuyFeeSafetyBps = 200
)

// 程序接口版本
const (
	LayoutV1 = "v1" // 旧版 12 账户 buy，无 creator vault / volume accumulator
	LayoutV2 = "v2" // 当前 16 账户 buy，带 track_volume 参数
)
