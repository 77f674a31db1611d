package trade

import (
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// findPDA bump 从 255 递减，取第一个不在曲线上的地址
func findPDA(seeds [][]byte, programID types.Pubkey) (types.Pubkey, error) {
	addr, _, err := common.FindProgramAddress(seeds, common.PublicKey(programID))
	if err != nil {
		return types.Pubkey{}, errs.Buildf("find program address under %s: %w", programID, err)
	}
	return types.Pubkey(addr), nil
}

// FindAssociatedTokenAddress ATA = PDA([owner, token program, mint], associated token program)
func FindAssociatedTokenAddress(owner, mint types.Pubkey) (types.Pubkey, error) {
	addr, _, err := common.FindAssociatedTokenAddress(common.PublicKey(owner), common.PublicKey(mint))
	if err != nil {
		return types.Pubkey{}, errs.Buildf("associated token address owner=%s mint=%s: %w", owner, mint, err)
	}
	return types.Pubkey(addr), nil
}

func GlobalPDA() (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedGlobal)}, consts.PumpFunProgram)
}

func EventAuthorityPDA() (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedEventAuthority)}, consts.PumpFunProgram)
}

func BondingCurvePDA(mint types.Pubkey) (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedBondingCurve), mint[:]}, consts.PumpFunProgram)
}

func CreatorVaultPDA(creator types.Pubkey) (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedCreatorVault), creator[:]}, consts.PumpFunProgram)
}

func GlobalVolumeAccumulatorPDA() (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedGlobalVolumeAccumulator)}, consts.PumpFunProgram)
}

func UserVolumeAccumulatorPDA(user types.Pubkey) (types.Pubkey, error) {
	return findPDA([][]byte{[]byte(consts.SeedUserVolumeAccumulator), user[:]}, consts.PumpFunProgram)
}

// FeeConfigPDA fee 程序下以 PumpFun 程序 ID 为常量种子
func FeeConfigPDA() (types.Pubkey, error) {
	return findPDA(
		[][]byte{[]byte(consts.SeedFeeConfig), consts.PumpFunProgram[:]},
		consts.PumpFunFeeProgram,
	)
}
