package trade

import (
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
)

// buy 指令 discriminator
var buyDiscriminator = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}

// buyArgsV1 旧版 buy 参数：amount + max_sol_cost
type buyArgsV1 struct {
	Discriminator [8]byte
	Amount        uint64
	MaxSolCost    uint64
}

// buyArgsV2 当前版本多一个 Option<bool> track_volume
type buyArgsV2 struct {
	Discriminator [8]byte
	Amount        uint64
	MaxSolCost    uint64
	TrackVolume   *bool
}

// BuyAccounts buy 指令用到的全部地址，v1 只使用其中一部分
type BuyAccounts struct {
	Global                  types.Pubkey
	FeeRecipient            types.Pubkey
	Mint                    types.Pubkey
	BondingCurve            types.Pubkey
	AssociatedBondingCurve  types.Pubkey
	AssociatedUser          types.Pubkey
	User                    types.Pubkey
	CreatorVault            types.Pubkey
	EventAuthority          types.Pubkey
	GlobalVolumeAccumulator types.Pubkey
	UserVolumeAccumulator   types.Pubkey
	FeeConfig               types.Pubkey
}

func encodeBuyArgs(layout string, amount, maxSolCost uint64) ([]byte, error) {
	var args any
	switch layout {
	case consts.LayoutV1:
		args = buyArgsV1{Discriminator: buyDiscriminator, Amount: amount, MaxSolCost: maxSolCost}
	case consts.LayoutV2:
		trackVolume := false
		args = buyArgsV2{Discriminator: buyDiscriminator, Amount: amount, MaxSolCost: maxSolCost, TrackVolume: &trackVolume}
	default:
		return nil, errs.Buildf("unknown program layout %q", layout)
	}

	data, err := borsh.Serialize(args)
	if err != nil {
		return nil, errs.Buildf("encode buy args: %w", err)
	}
	return data, nil
}

func meta(p types.Pubkey, signer, writable bool) soltypes.AccountMeta {
	return soltypes.AccountMeta{PubKey: common.PublicKey(p), IsSigner: signer, IsWritable: writable}
}

// buyAccountMetas 账户顺序必须与链上程序定义一致
func buyAccountMetas(layout string, a BuyAccounts) []soltypes.AccountMeta {
	if layout == consts.LayoutV1 {
		return []soltypes.AccountMeta{
			meta(a.Global, false, false),
			meta(a.FeeRecipient, false, true),
			meta(a.Mint, false, false),
			meta(a.BondingCurve, false, true),
			meta(a.AssociatedBondingCurve, false, true),
			meta(a.AssociatedUser, false, true),
			meta(a.User, true, true),
			meta(consts.SystemProgram, false, false),
			meta(consts.TokenProgram, false, false),
			meta(consts.RentSysvar, false, false),
			meta(a.EventAuthority, false, false),
			meta(consts.PumpFunProgram, false, false),
		}
	}

	return []soltypes.AccountMeta{
		meta(a.Global, false, false),
		meta(a.FeeRecipient, false, true),
		meta(a.Mint, false, false),
		meta(a.BondingCurve, false, true),
		meta(a.AssociatedBondingCurve, false, true),
		meta(a.AssociatedUser, false, true),
		meta(a.User, true, true),
		meta(consts.SystemProgram, false, false),
		meta(consts.TokenProgram, false, false),
		meta(a.CreatorVault, false, true),
		meta(a.EventAuthority, false, false),
		meta(consts.PumpFunProgram, false, false),
		meta(a.GlobalVolumeAccumulator, false, true),
		meta(a.UserVolumeAccumulator, false, true),
		meta(a.FeeConfig, false, false),
		meta(consts.PumpFunFeeProgram, false, false),
	}
}

// NewBuyInstruction 组装 buy 指令：discriminator + amount(min token out) + max_sol_cost [+ track_volume]
func NewBuyInstruction(layout string, accounts BuyAccounts, minTokenOut, maxSolCost uint64) (soltypes.Instruction, error) {
	data, err := encodeBuyArgs(layout, minTokenOut, maxSolCost)
	if err != nil {
		return soltypes.Instruction{}, err
	}
	return soltypes.Instruction{
		ProgramID: common.PublicKey(consts.PumpFunProgram),
		Accounts:  buyAccountMetas(layout, accounts),
		Data:      data,
	}, nil
}
