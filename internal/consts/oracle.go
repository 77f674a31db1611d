package consts

const (
	// https://www.pyth.network/price-feeds/crypto-sol-usd
	PythSOLFeedIDStr = "ef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d"
	PythSOLAccount   = "H6ARHf6YXhGYeQfUzQNGk6rDNnLBQKrenN712K4AQJEG"

	// CoinGeckoSimplePriceURL 默认的 SOL/USD 报价接口
	CoinGeckoSimplePriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"
)
