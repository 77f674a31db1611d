package pumpfun

import (
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"
)

// DecodeGlobalFeeRecipient 从 Global 账户固定偏移读取 fee_recipient
func DecodeGlobalFeeRecipient(data []byte) (types.Pubkey, error) {
	end := consts.GlobalFeeRecipientOffset + types.PubkeyLength
	if len(data) < end {
		return types.Pubkey{}, errs.Decodef("global account needs %d bytes, got %d", end, len(data))
	}
	return types.TryPubkeyFromBytes(data[consts.GlobalFeeRecipientOffset:end])
}
