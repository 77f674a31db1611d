package pumpfun

import (
	"encoding/binary"

	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"
)

const (
	// BondingCurveMinLen 解码所需的最小账户长度
	BondingCurveMinLen = 57

	// 新版本 creator 紧跟在 complete 之后
	creatorOffset = 49
	creatorEnd    = creatorOffset + types.PubkeyLength
)

// BondingCurve 账户布局（PoolState）：
//
//	[0:8]   账户 tag
//	[8:16]  virtual_token_reserves
//	[16:24] virtual_sol_reserves
//	[24:32] real_token_reserves
//	[32:40] real_sol_reserves
//	[40:48] token_total_supply
//	[48]    complete
//	[49:81] creator（可选）
type BondingCurve struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              types.Pubkey
	HasCreator           bool
}

// DecodeBondingCurve 按固定偏移解析 bonding curve 账户，不做 tag / 版本校验
func DecodeBondingCurve(data []byte) (*BondingCurve, error) {
	if len(data) < BondingCurveMinLen {
		return nil, errs.Decodef("bonding curve needs %d bytes, got %d", BondingCurveMinLen, len(data))
	}

	c := &BondingCurve{
		VirtualTokenReserves: binary.LittleEndian.Uint64(data[8:16]),
		VirtualSolReserves:   binary.LittleEndian.Uint64(data[16:24]),
		RealTokenReserves:    binary.LittleEndian.Uint64(data[24:32]),
		RealSolReserves:      binary.LittleEndian.Uint64(data[32:40]),
		TokenTotalSupply:     binary.LittleEndian.Uint64(data[40:48]),
		Complete:             data[48] != 0,
	}
	if len(data) >= creatorEnd {
		copy(c.Creator[:], data[creatorOffset:creatorEnd])
		c.HasCreator = true
	}
	return c, nil
}
