package trade

import (
	"context"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/logic/core"
	"pump-sniper-sol/internal/logic/pumpfun"
	"pump-sniper-sol/internal/types"
	"pump-sniper-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	soltypes "github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// ChainClient 构建与模拟所需的 RPC 调用，均为同步请求，不在此重试
type ChainClient interface {
	GetAccountInfo(ctx context.Context, addr types.Pubkey) (types.AccountInfo, error)
	GetLatestBlockhash(ctx context.Context) (string, error)
	SimulateTransaction(ctx context.Context, tx soltypes.Transaction) (types.SimulateResult, error)
}

// BuildResult 已签名但未提交的买入交易
type BuildResult struct {
	Tx                  soltypes.Transaction
	Signature           string
	BuyerTokenAccount   types.Pubkey
	CreatesTokenAccount bool
	FeeRecipient        types.Pubkey
	Quote               Quote
}

// Builder 进程内只读，可被多轮 watch cycle 复用
type Builder struct {
	rpc    ChainClient
	buyer  soltypes.Account
	user   types.Pubkey
	conf   config.TradeConfig
	static BuyAccounts // 与 mint 无关的地址，启动时派生一次
}

func NewBuilder(rpc ChainClient, conf config.TradeConfig) (*Builder, error) {
	buyer, err := soltypes.AccountFromBase58(conf.BuyerKeypair)
	if err != nil {
		return nil, errs.Startupf("parse buyer keypair: %w", err)
	}
	user := types.Pubkey(buyer.PublicKey)

	static, err := deriveStaticAccounts(user)
	if err != nil {
		return nil, err
	}
	return &Builder{
		rpc:    rpc,
		buyer:  buyer,
		user:   user,
		conf:   conf,
		static: static,
	}, nil
}

func (b *Builder) Buyer() types.Pubkey {
	return b.user
}

func deriveStaticAccounts(user types.Pubkey) (BuyAccounts, error) {
	var (
		a   = BuyAccounts{User: user}
		err error
	)
	if a.Global, err = GlobalPDA(); err != nil {
		return a, err
	}
	if a.EventAuthority, err = EventAuthorityPDA(); err != nil {
		return a, err
	}
	if a.GlobalVolumeAccumulator, err = GlobalVolumeAccumulatorPDA(); err != nil {
		return a, err
	}
	if a.UserVolumeAccumulator, err = UserVolumeAccumulatorPDA(user); err != nil {
		return a, err
	}
	if a.FeeConfig, err = FeeConfigPDA(); err != nil {
		return a, err
	}
	return a, nil
}

// Build 计算报价、派生地址、组装并签名买入交易；任一步失败则整体失败
func (b *Builder) Build(ctx context.Context, asset *core.AssetInfo, curve *pumpfun.BondingCurve) (*BuildResult, error) {
	quote := ComputeQuote(curve.VirtualTokenReserves, curve.VirtualSolReserves, b.conf.BuyLamports, b.conf.SlippageBps)

	accounts, err := b.resolveAccounts(ctx, asset, curve)
	if err != nil {
		return nil, err
	}

	// 买方 ATA 不存在时先创建
	var instructions []soltypes.Instruction
	ataInfo, err := b.rpc.GetAccountInfo(ctx, accounts.AssociatedUser)
	if err != nil {
		return nil, errs.Lookupf("buyer token account %s: %w", accounts.AssociatedUser, err)
	}
	createsATA := !ataInfo.Exists
	if createsATA {
		instructions = append(instructions, associated_token_account.Create(associated_token_account.CreateParam{
			Funder:                 common.PublicKey(b.user),
			Owner:                  common.PublicKey(b.user),
			Mint:                   common.PublicKey(asset.Mint),
			AssociatedTokenAccount: common.PublicKey(accounts.AssociatedUser),
		}))
	}

	buyIx, err := NewBuyInstruction(b.conf.ProgramLayout, accounts, quote.MinTokenOut, quote.MaxSolCost)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, buyIx)

	blockhash, err := b.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, errs.Lookupf("latest blockhash: %w", err)
	}

	tx, err := soltypes.NewTransaction(soltypes.NewTransactionParam{
		Message: soltypes.NewMessage(soltypes.NewMessageParam{
			FeePayer:        common.PublicKey(b.user),
			RecentBlockhash: blockhash,
			Instructions:    instructions,
		}),
		Signers: []soltypes.Account{b.buyer},
	})
	if err != nil {
		return nil, errs.Buildf("sign transaction: %w", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errs.Buildf("transaction has no signature")
	}

	return &BuildResult{
		Tx:                  tx,
		Signature:           base58.Encode(tx.Signatures[0]),
		BuyerTokenAccount:   accounts.AssociatedUser,
		CreatesTokenAccount: createsATA,
		FeeRecipient:        accounts.FeeRecipient,
		Quote:               quote,
	}, nil
}

// resolveAccounts 派生与本次 mint 相关的地址，并读取 Global 账户中的 fee_recipient
func (b *Builder) resolveAccounts(ctx context.Context, asset *core.AssetInfo, curve *pumpfun.BondingCurve) (BuyAccounts, error) {
	a := b.static
	a.Mint = asset.Mint
	a.BondingCurve = asset.Pool

	if derived, err := BondingCurvePDA(asset.Mint); err == nil && derived != asset.Pool {
		logger.Warnf("[Builder] bonding curve 与派生地址不一致: pool=%s, derived=%s, mint=%s", asset.Pool, derived, asset.Mint)
	}

	global, err := b.rpc.GetAccountInfo(ctx, a.Global)
	if err != nil {
		return a, errs.Lookupf("global account %s: %w", a.Global, err)
	}
	if !global.Exists {
		return a, errs.Lookupf("global account %s not found", a.Global)
	}
	if a.FeeRecipient, err = pumpfun.DecodeGlobalFeeRecipient(global.Data); err != nil {
		return a, errs.Buildf("fee recipient: %w", err)
	}

	if a.AssociatedBondingCurve, err = FindAssociatedTokenAddress(asset.Pool, asset.Mint); err != nil {
		return a, err
	}
	if a.AssociatedUser, err = FindAssociatedTokenAddress(b.user, asset.Mint); err != nil {
		return a, err
	}

	if b.conf.ProgramLayout == consts.LayoutV2 {
		// 新版本账户里带 creator，优先使用
		creator := asset.Creator
		if curve.HasCreator && !curve.Creator.IsZero() {
			creator = curve.Creator
		}
		if a.CreatorVault, err = CreatorVaultPDA(creator); err != nil {
			return a, err
		}
	}
	return a, nil
}

// Simulate 只做 dry run，不修改传入的交易
func (b *Builder) Simulate(ctx context.Context, res *BuildResult) (types.SimulateResult, error) {
	sim, err := b.rpc.SimulateTransaction(ctx, res.Tx)
	if err != nil {
		return types.SimulateResult{}, errs.Lookupf("simulate %s: %w", res.Signature, err)
	}
	return sim, nil
}
