package service

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"pump-sniper-sol/internal/config"
	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/internal/types"
	"pump-sniper-sol/pkg/logger"

	"github.com/zeromicro/go-zero/rest/httpc"
)

// PriceOracle 启动时获取一次 SOL/USD 价格
type PriceOracle interface {
	FetchSOLPrice(ctx context.Context) (float64, error)
}

// accountReader 只需要单账户查询，*RpcClient 满足
type accountReader interface {
	GetAccountInfo(ctx context.Context, addr types.Pubkey) (types.AccountInfo, error)
}

func NewPriceOracle(c config.PriceOracleConfig, rpc accountReader) PriceOracle {
	if c.Source == "pyth" {
		return &PythOracle{rpc: rpc, account: types.PubkeyFromBase58(consts.PythSOLAccount)}
	}
	return &CoinGeckoOracle{endpoint: c.Endpoint}
}

// FetchStartupPrice 初始化时最多重试 retryCount 次，全部失败返回 ErrStartup
func FetchStartupPrice(ctx context.Context, oracle PriceOracle, timeout time.Duration) (float64, error) {
	const retryCount = 3
	var lastErr error
	for i := 0; i <= retryCount; i++ {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		price, err := oracle.FetchSOLPrice(fetchCtx)
		cancel()
		if err == nil && price > 0 {
			logger.Infof("[Oracle] 初始价格同步成功: SOL/USD = %.4f", price)
			return price, nil
		}
		if err == nil {
			err = fmt.Errorf("invalid price %v", price)
		}
		lastErr = err
		logger.Warnf("[Oracle] 第 %d 次获取价格失败: %v", i+1, err)

		if i < retryCount {
			select {
			case <-ctx.Done():
				return 0, errs.Startupf("fetch SOL price: %w", ctx.Err())
			case <-time.After(2 * time.Second):
			}
		}
	}
	return 0, errs.Startupf("fetch SOL price: %w", lastErr)
}

// CoinGeckoOracle simple/price 接口
type CoinGeckoOracle struct {
	endpoint string
}

type coinGeckoResp struct {
	Solana struct {
		Usd float64 `json:"usd"`
	} `json:"solana"`
}

func (o *CoinGeckoOracle) FetchSOLPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpc.DoRequest(req)
	if err != nil {
		return 0, fmt.Errorf("coingecko request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("coingecko status %d", resp.StatusCode)
	}

	var body coinGeckoResp
	if err := httpc.Parse(resp, &body); err != nil {
		return 0, fmt.Errorf("coingecko parse failed: %w", err)
	}
	return body.Solana.Usd, nil
}

// PythOracle 直接读取 Pyth SOL/USD price 账户
type PythOracle struct {
	rpc     accountReader
	account types.Pubkey
}

func (o *PythOracle) FetchSOLPrice(ctx context.Context) (float64, error) {
	start := time.Now()
	info, err := o.rpc.GetAccountInfo(ctx, o.account)
	if err != nil {
		return 0, err
	}
	if !info.Exists || len(info.Data) == 0 {
		return 0, fmt.Errorf("pyth price account %s is empty", o.account)
	}
	logger.Infof("[Oracle] GetAccountInfo 成功, 耗时: %v", time.Since(start))

	point, err := parsePythPriceAccount(info.Data, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Infof("[Oracle] pyth SOL/USD: %.6f (ts=%s)", point.Price, time.Unix(point.Timestamp, 0).Format("2006-01-02 15:04:05"))
	return point.Price, nil
}

type pricePoint struct {
	Price     float64
	Timestamp int64
}

// 参考: https://github.com/pyth-network/pyth-client-js/blob/main/src/index.ts - parsePriceData
func parsePythPriceAccount(data []byte, now time.Time) (*pricePoint, error) {
	if len(data) < 240 {
		return nil, errors.New("price account data too short")
	}

	exponent := int32(binary.LittleEndian.Uint32(data[20:24]))
	publishTimestamp := int64(binary.LittleEndian.Uint64(data[96:104]))

	// 取 aggregate 区块（偏移 208 起）
	agg := parsePriceInfo(data[208:240], int(exponent))
	if agg.Status != 1 {
		return nil, fmt.Errorf("price status not trading: %d", agg.Status)
	}
	// SOL 允许最大 2% 的置信误差
	if agg.Confidence > 0.02*agg.Price {
		return nil, fmt.Errorf("confidence too low: price=%.6f, conf=%.6f", agg.Price, agg.Confidence)
	}
	if now.Unix()-publishTimestamp > 120 {
		return nil, fmt.Errorf("price too old: ts=%d", publishTimestamp)
	}
	return &pricePoint{Price: agg.Price, Timestamp: publishTimestamp}, nil
}

type priceInfo struct {
	Status     uint32
	Price      float64
	Confidence float64
}

// 参考: https://github.com/pyth-network/pyth-client-js/blob/main/src/index.ts - parsePriceInfo
func parsePriceInfo(data []byte, exponent int) priceInfo {
	// [0:8]   -> priceComponent (int64)
	// [8:16]  -> confidenceComponent (uint64)
	// [16:20] -> status (1 = trading)
	priceComponent := int64(binary.LittleEndian.Uint64(data[0:8]))
	confidenceComponent := binary.LittleEndian.Uint64(data[8:16])
	status := binary.LittleEndian.Uint32(data[16:20])

	return priceInfo{
		Status:     status,
		Price:      float64(priceComponent) * math.Pow10(exponent),
		Confidence: float64(confidenceComponent) * math.Pow10(exponent),
	}
}
