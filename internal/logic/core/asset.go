package core

import (
	"fmt"
	"time"

	"pump-sniper-sol/internal/types"
)

// AssetInfo 首次观察到 create 事件时构造，之后只读
type AssetInfo struct {
	Mint         types.Pubkey
	Pool         types.Pubkey // bonding curve 账户
	Creator      types.Pubkey
	Name         string
	Symbol       string
	DiscoveredAt time.Time
}

func NewAssetInfo(mint, pool, creator types.Pubkey, name, symbol string) *AssetInfo {
	return &AssetInfo{
		Mint:         mint,
		Pool:         pool,
		Creator:      creator,
		Name:         name,
		Symbol:       symbol,
		DiscoveredAt: time.Now(),
	}
}

func (a *AssetInfo) String() string {
	return fmt.Sprintf("%s(%s) mint=%s pool=%s creator=%s", a.Name, a.Symbol, a.Mint, a.Pool, a.Creator)
}
