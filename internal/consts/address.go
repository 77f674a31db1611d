package consts

import "pump-sniper-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	//  Programs
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	RentSysvarStr             = "SysvarRent111111111111111111111111111111111"

	// USD 计价基础报价币
	WSOLMintStr = "So11111111111111111111111111111111111111112"

	// Launchpad: PumpFun
	PumpFunProgramStr    = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	PumpFunFeeProgramStr = "pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ"
)

var (
	// Programs
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	RentSysvar             = types.PubkeyFromBase58(RentSysvarStr)

	WSOLMint = types.PubkeyFromBase58(WSOLMintStr)

	PumpFunProgram    = types.PubkeyFromBase58(PumpFunProgramStr)
	PumpFunFeeProgram = types.PubkeyFromBase58(PumpFunFeeProgramStr)
)
