package service

import (
	"context"
	"fmt"
	"time"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/types"

	"github.com/blocto/solana-go-sdk/client"
	soltypes "github.com/blocto/solana-go-sdk/types"
	"golang.org/x/time/rate"
)

// RpcClient Solana JSON-RPC 适配层：限流 + 单次超时，不做重试
type RpcClient struct {
	client  *client.Client
	limiter *rate.Limiter
	timeout time.Duration
}

func NewRpcClient(c config.RpcConfig) *RpcClient {
	limit := rate.Inf
	if c.RateLimit > 0 {
		limit = rate.Limit(c.RateLimit)
	}
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RpcClient{
		client:  client.NewClient(c.Endpoint),
		limiter: rate.NewLimiter(limit, burst),
		timeout: time.Duration(c.TimeoutSec) * time.Second,
	}
}

func (r *RpcClient) begin(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter: %w", err)
	}
	if r.timeout <= 0 {
		callCtx, cancel := context.WithCancel(ctx)
		return callCtx, cancel, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	return callCtx, cancel, nil
}

// GetAccountInfo 账户不存在时返回 Exists=false，不视为错误
func (r *RpcClient) GetAccountInfo(ctx context.Context, addr types.Pubkey) (types.AccountInfo, error) {
	callCtx, cancel, err := r.begin(ctx)
	if err != nil {
		return types.AccountInfo{}, err
	}
	defer cancel()

	info, err := r.client.GetAccountInfo(callCtx, addr.String())
	if err != nil {
		return types.AccountInfo{}, fmt.Errorf("GetAccountInfo %s failed: %w", addr, err)
	}

	owner := types.Pubkey(info.Owner)
	return types.AccountInfo{
		Exists:   !owner.IsZero() || info.Lamports > 0 || len(info.Data) > 0,
		Lamports: info.Lamports,
		Owner:    owner,
		Data:     info.Data,
	}, nil
}

func (r *RpcClient) GetLatestBlockhash(ctx context.Context) (string, error) {
	callCtx, cancel, err := r.begin(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	res, err := r.client.GetLatestBlockhash(callCtx)
	if err != nil {
		return "", fmt.Errorf("GetLatestBlockhash failed: %w", err)
	}
	return res.Blockhash, nil
}

func (r *RpcClient) SimulateTransaction(ctx context.Context, tx soltypes.Transaction) (types.SimulateResult, error) {
	callCtx, cancel, err := r.begin(ctx)
	if err != nil {
		return types.SimulateResult{}, err
	}
	defer cancel()

	res, err := r.client.SimulateTransaction(callCtx, tx)
	if err != nil {
		return types.SimulateResult{}, fmt.Errorf("SimulateTransaction failed: %w", err)
	}

	result := types.SimulateResult{Success: res.Err == nil, Logs: res.Logs}
	if res.Err != nil {
		result.Err = fmt.Sprintf("%v", res.Err)
	}
	return result, nil
}
