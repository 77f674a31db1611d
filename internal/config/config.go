package config

import (
	"time"

	"pump-sniper-sol/internal/consts"
	"pump-sniper-sol/internal/errs"
	"pump-sniper-sol/pkg/logger"

	"github.com/zeromicro/go-zero/core/conf"
)

type LogConfig struct {
	Format   string `json:"format,default=console,options=console|json"` // 日志格式
	LogDir   string `json:"log_dir,optional"`                            // 日志目录（为空只输出 stdout）
	Level    string `json:"level,default=info"`                          // debug / info / warn / error
	Compress bool   `json:"compress,optional"`                           // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// GrpcConfig Yellowstone gRPC（交易流 + 账户流）连接配置
type GrpcConfig struct {
	Endpoint string `json:"endpoint"` // gRPC 服务端地址
	XToken   string `json:"x_token"`  // x-token 认证（API key）
	Insecure bool   `json:"insecure,optional"`

	// 应用级逻辑心跳（ping）配置
	StreamPingIntervalSec int `json:"stream_ping_interval_sec,default=10"`

	// gRPC Keepalive 底层连接检测配置
	KeepalivePingIntervalSec int `json:"keepalive_ping_interval_sec,default=10"`
	KeepalivePingTimeoutSec  int `json:"keepalive_ping_timeout_sec,default=5"`

	// gRPC 窗口大小调优
	InitialWindowSize     int `json:"initial_window_size,default=8388608"`
	InitialConnWindowSize int `json:"initial_conn_window_size,default=16777216"`

	// 消息体大小限制
	MaxCallSendMsgSize int `json:"max_call_send_msg_size,default=16777216"`
	MaxCallRecvMsgSize int `json:"max_call_recv_msg_size,default=67108864"`

	// 超时与重连策略
	ReconnectIntervalSec int `json:"reconnect_interval_sec,default=2"`
	MaxReconnectAttempts int `json:"max_reconnect_attempts,default=0"` // 0 表示无限重连
	ConnectTimeoutSec    int `json:"connect_timeout_sec,default=10"`
	SendTimeoutSec       int `json:"send_timeout_sec,default=5"`
}

// RpcConfig Solana JSON-RPC（单账户查询 / blockhash / 模拟）
type RpcConfig struct {
	Endpoint   string  `json:"endpoint"`
	TimeoutSec int     `json:"timeout_sec,default=10"`
	RateLimit  float64 `json:"rate_limit,default=20"` // 每秒请求数
	Burst      int     `json:"burst,default=5"`
}

// PriceOracleConfig 启动时一次性拉取 SOL/USD 价格
type PriceOracleConfig struct {
	Source     string `json:"source,default=coingecko,options=coingecko|pyth"`
	Endpoint   string `json:"endpoint,optional"` // coingecko 接口地址，pyth 时忽略
	TimeoutSec int    `json:"timeout_sec,default=10"`
}

// TradeConfig 买入参数
type TradeConfig struct {
	BuyLamports     uint64  `json:"buy_lamports,default=100000000"`  // 每次买入的 SOL 数量（lamports）
	SlippageBps     uint64  `json:"slippage_bps,default=500"`        // 滑点（基点）
	MinMarketCapUsd float64 `json:"min_market_cap_usd,default=8000"` // 最小市值门槛（USD）
	BuyerKeypair    string  `json:"buyer_keypair"`                   // base58 私钥
	ProgramLayout   string  `json:"program_layout,default=v2,options=v1|v2"`
	Simulate        bool    `json:"simulate,default=true"` // 构建完成后是否调用 simulateTransaction
}

// WindowConfig 收集 / 监控窗口
type WindowConfig struct {
	CollectionSec  int `json:"collection_sec,default=30"`
	WatchSec       int `json:"watch_sec,default=40"`
	PollTimeoutMs  int `json:"poll_timeout_ms,default=1000"`
	SeenMintTTLSec int `json:"seen_mint_ttl_sec,default=0"` // 0 表示进程内永不淘汰
}

func (w WindowConfig) Collection() time.Duration {
	return time.Duration(w.CollectionSec) * time.Second
}

func (w WindowConfig) Watch() time.Duration {
	return time.Duration(w.WatchSec) * time.Second
}

func (w WindowConfig) PollTimeout() time.Duration {
	return time.Duration(w.PollTimeoutMs) * time.Millisecond
}

func (w WindowConfig) SeenMintTTL() time.Duration {
	return time.Duration(w.SeenMintTTLSec) * time.Second
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers       string `json:"brokers,optional"` // Kafka broker 地址，多个用英文逗号分隔
	Topic         string `json:"topic,default=pump_sniper_ticket"`
	Partitions    int    `json:"partitions,default=1"`
	BatchSize     int    `json:"batch_size,default=32768"` // 批处理大小（单位字节）
	LingerMs      int    `json:"linger_ms,default=5"`      // 批处理最大延迟（毫秒）
	SendTimeoutMs int    `json:"send_timeout_ms,default=3000"`
}

// RedisConfig hand-off 到 Redis 时使用
type RedisConfig struct {
	Addr      string `json:"addr,optional"`
	Password  string `json:"password,optional"`
	DB        int    `json:"db,default=0"`
	Queue     string `json:"queue,default=pump:sniper:tickets"`
	TicketTTL int    `json:"ticket_ttl_sec,default=600"`
}

// HandoffConfig 已签名交易交给外部提交方的通道
type HandoffConfig struct {
	Sink  string              `json:"sink,default=log,options=log|kafka|redis"`
	Kafka KafkaProducerConfig `json:"kafka,optional"`
	Redis RedisConfig         `json:"redis,optional"`
}

// SniperConfig 是主配置结构体，进程启动时加载一次，之后只读
type SniperConfig struct {
	LogConf     LogConfig         `json:"logger,optional"`
	Grpc        GrpcConfig        `json:"grpc"`
	Rpc         RpcConfig         `json:"rpc"`
	PriceOracle PriceOracleConfig `json:"price_oracle,optional"`
	Trade       TradeConfig       `json:"trade"`
	Window      WindowConfig      `json:"window,optional"`
	Handoff     HandoffConfig     `json:"handoff,optional"`
}

// Load 读取 yaml 配置（支持 ${ENV} 展开），缺失必填项时返回 ErrStartup
func Load(file string) (SniperConfig, error) {
	var c SniperConfig
	if err := conf.Load(file, &c, conf.UseEnv()); err != nil {
		return c, errs.Startupf("load config %s: %w", file, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// fillDefaults 整段省略的可选配置块不会走 default 标签，这里兜底
func (c *SniperConfig) fillDefaults() {
	if c.Window.CollectionSec == 0 {
		c.Window.CollectionSec = 30
	}
	if c.Window.WatchSec == 0 {
		c.Window.WatchSec = 40
	}
	if c.Window.PollTimeoutMs == 0 {
		c.Window.PollTimeoutMs = 1000
	}
	if c.PriceOracle.Source == "" {
		c.PriceOracle.Source = "coingecko"
	}
	if c.PriceOracle.TimeoutSec == 0 {
		c.PriceOracle.TimeoutSec = 10
	}
	if c.Handoff.Sink == "" {
		c.Handoff.Sink = "log"
	}
}

// Validate 校验 go-zero 标签之外的约束
func (c *SniperConfig) Validate() error {
	c.fillDefaults()

	switch {
	case c.Grpc.Endpoint == "":
		return errs.Startupf("grpc.endpoint is required")
	case c.Grpc.XToken == "":
		return errs.Startupf("grpc.x_token is required")
	case c.Rpc.Endpoint == "":
		return errs.Startupf("rpc.endpoint is required")
	case c.Trade.BuyerKeypair == "":
		return errs.Startupf("trade.buyer_keypair is required")
	case c.Trade.BuyLamports == 0:
		return errs.Startupf("trade.buy_lamports must be > 0")
	case c.Trade.SlippageBps > consts.BpsDenominator:
		return errs.Startupf("trade.slippage_bps must be <= %d, got %d", consts.BpsDenominator, c.Trade.SlippageBps)
	case c.Trade.MinMarketCapUsd < 0:
		return errs.Startupf("trade.min_market_cap_usd must be >= 0")
	case c.Window.CollectionSec <= 0 || c.Window.WatchSec <= 0:
		return errs.Startupf("window.collection_sec / window.watch_sec must be > 0")
	case c.Window.PollTimeoutMs <= 0:
		return errs.Startupf("window.poll_timeout_ms must be > 0")
	}

	switch c.Trade.ProgramLayout {
	case consts.LayoutV1, consts.LayoutV2:
	default:
		return errs.Startupf("unknown trade.program_layout %q", c.Trade.ProgramLayout)
	}

	switch c.PriceOracle.Source {
	case "coingecko":
		if c.PriceOracle.Endpoint == "" {
			c.PriceOracle.Endpoint = consts.CoinGeckoSimplePriceURL
		}
	case "pyth":
	default:
		return errs.Startupf("unknown price_oracle.source %q", c.PriceOracle.Source)
	}

	switch c.Handoff.Sink {
	case "log":
	case "kafka":
		if c.Handoff.Kafka.Brokers == "" {
			return errs.Startupf("handoff.kafka.brokers is required for kafka sink")
		}
	case "redis":
		if c.Handoff.Redis.Addr == "" {
			return errs.Startupf("handoff.redis.addr is required for redis sink")
		}
	default:
		return errs.Startupf("unknown handoff.sink %q", c.Handoff.Sink)
	}
	return nil
}
