package trade

import (
	"crypto/sha256"
	"testing"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isOnCurve(p types.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

func TestKnownPumpFunPDAs(t *testing.T) {
	global, err := GlobalPDA()
	require.NoError(t, err)
	assert.Equal(t, "4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf", global.String())

	eventAuthority, err := EventAuthorityPDA()
	require.NoError(t, err)
	assert.Equal(t, "Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1", eventAuthority.String())
}

func TestBondingCurvePDA_MatchesSeedHash(t *testing.T) {
	mint := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")
	addr, err := BondingCurvePDA(mint)
	require.NoError(t, err)

	// 重新按 sha256(seeds || bump || program || marker) 计算，找到相同 bump
	matched := false
	for bump := 255; bump > 0 && !matched; bump-- {
		h := sha256.New()
		h.Write([]byte(consts.SeedBondingCurve))
		h.Write(mint[:])
		h.Write([]byte{byte(bump)})
		h.Write(consts.PumpFunProgram[:])
		h.Write([]byte("ProgramDerivedAddress"))
		var candidate types.Pubkey
		copy(candidate[:], h.Sum(nil))
		if isOnCurve(candidate) {
			continue
		}
		assert.Equal(t, candidate, addr)
		matched = true
	}
	assert.True(t, matched)

	again, err := BondingCurvePDA(mint)
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestFindAssociatedTokenAddress(t *testing.T) {
	owner := types.PubkeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	mint := types.PubkeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	ata, err := FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)

	want, err := findPDA([][]byte{owner[:], consts.TokenProgram[:], mint[:]}, consts.AssociatedTokenProgram)
	require.NoError(t, err)
	assert.Equal(t, want, ata)
	assert.False(t, isOnCurve(ata))
}

func TestDerivedAddressesAreOffCurve(t *testing.T) {
	user := types.PubkeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	derive := []func() (types.Pubkey, error){
		GlobalPDA,
		EventAuthorityPDA,
		GlobalVolumeAccumulatorPDA,
		FeeConfigPDA,
		func() (types.Pubkey, error) { return UserVolumeAccumulatorPDA(user) },
		func() (types.Pubkey, error) { return CreatorVaultPDA(user) },
	}
	seen := make(map[types.Pubkey]bool)
	for _, fn := range derive {
		addr, err := fn()
		require.NoError(t, err)
		assert.False(t, isOnCurve(addr), addr.String())
		assert.False(t, seen[addr])
		seen[addr] = true
	}

	// 普通钱包公钥在曲线上
	assert.True(t, isOnCurve(user))
}

func TestFindPDA_SeedTooLong(t *testing.T) {
	_, err := findPDA([][]byte{make([]byte, 33)}, consts.PumpFunProgram)
	assert.ErrorIs(t, err, errs.ErrBuild)
}
