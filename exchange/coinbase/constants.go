package coinbase

import "time"

const (
	BaseURL = "https://api.pro.coinbase.com"

	ProductsPath   = "/products"
	CurrenciesPath = "/currencies"
	TimePath       = "/time"

	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimit      = 3
	DefaultBurstSize      = 6
)
