package exchange

import (
	"context"
	"time"
)

//
// PublicClient generically provides an interface to an object that can be used to poll a
// cryptocurrency exchange's public (unauthenticated) market data REST API.
//
// Whenever an endpoint fails – whether due to a system failure, an HTTP error, or an API error –
// the error component of the response will be non-nil and, if at all possible, the response payload
// that was received will be returned.
//
type PublicClient interface {

	//
	// Products retrieves the list of markets available to trade.
	//
	Products(ctx context.Context) (Response, error)

	//
	// Product retrieves information about a single market (e.g. "ETH-USD").
	//
	Product(ctx context.Context, productID string) (Response, error)

	//
	// ProductOrderBook retrieves an order book snapshot of the specified market at the specified
	// depth.
	//
	ProductOrderBook(ctx context.Context, productID string, level BookLevel) (Response, error)

	//
	// ProductTicker retrieves a snapshot of the last trade, best bid/ask, and 24h volume.
	//
	ProductTicker(ctx context.Context, productID string) (Response, error)

	//
	// ProductTrades retrieves the latest trades of a market. When after is non-nil, only trades
	// with a sequence greater than *after are returned.
	//
	ProductTrades(ctx context.Context, productID string, after *uint64) (Response, error)

	//
	// ProductHistoricRates retrieves candles for a market. Any nil parameter is left for the
	// exchange to default.
	//
	ProductHistoricRates(ctx context.Context, productID string, start, end *time.Time, granularity *Granularity) (Response, error)

	//
	// Product24hStats retrieves a market's 24 hour stats.
	//
	Product24hStats(ctx context.Context, productID string) (Response, error)

	//
	// Currencies retrieves the currencies known to the exchange.
	//
	Currencies(ctx context.Context) (Response, error)

	//
	// Time retrieves the exchange's server time.
	//
	Time(ctx context.Context) (Response, error)
}
