package coinbase

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/lukehollenback/cbpro/constants"
	"github.com/lukehollenback/cbpro/exchange"
)

//
// Products retrieves the list of markets available to trade.
//
func (o *Client) Products(ctx context.Context) (exchange.Response, error) {
	return o.get(ctx, ProductsPath, nil)
}

//
// Product retrieves information about a single market. Product identifiers are formatted as
// 'BASE-QUOTE' (e.g. 'ETH-USD') and may be lowercase or uppercase.
//
func (o *Client) Product(ctx context.Context, productID string) (exchange.Response, error) {
	return o.get(ctx, productPath(productID, ""), nil)
}

//
// ProductOrderBook retrieves up to a full (level 3) order book from a single market. Level 1 is the
// best bid and best ask, level 2 the fifty best bid and ask levels (aggregated), and level 3 the
// full book (unaggregated).
//
func (o *Client) ProductOrderBook(ctx context.Context, productID string, level exchange.BookLevel) (exchange.Response, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid order book level %d", int(level))
	}

	params := url.Values{}
	params.Set("level", level.String())

	return o.get(ctx, productPath(productID, "/book"), params)
}

//
// ProductTicker retrieves a snapshot of the last trade, best bid/ask, and 24h volume.
//
func (o *Client) ProductTicker(ctx context.Context, productID string) (exchange.Response, error) {
	return o.get(ctx, productPath(productID, "/ticker"), nil)
}

//
// ProductTrades retrieves a market's latest trades. When after is non-nil, trades with a sequence
// at or below *after are excluded from the response.
//
func (o *Client) ProductTrades(ctx context.Context, productID string, after *uint64) (exchange.Response, error) {
	var params url.Values

	// NOTE ~> Coinbase's "after" cursor is inclusive of the trade id passed, so we step past it.
	if after != nil {
		params = url.Values{}
		params.Set("after", strconv.FormatUint(*after+1, 10))
	}

	return o.get(ctx, productPath(productID, "/trades"), params)
}

//
// ProductHistoricRates retrieves a market's historic rates (candles). Any nil parameter is omitted
// from the request, in which case Coinbase returns the most recent 300 one minute candles. Coinbase
// rejects requests for more than 300 candles of any size; see ProductHistoricRatesRange for longer
// spans.
//
// In addition to the raw payload, the returned response carries the decoded candles.
//
func (o *Client) ProductHistoricRates(
	ctx context.Context,
	productID string,
	start *time.Time,
	end *time.Time,
	granularity *exchange.Granularity,
) (exchange.Response, error) {
	params := url.Values{}
	width := exchange.OneMinute

	if granularity != nil {
		if !granularity.Valid() {
			return nil, fmt.Errorf("invalid candle granularity %d", int(*granularity))
		}

		width = *granularity
		params.Set("granularity", granularity.Seconds())
	}

	if start != nil && end != nil && start.After(*end) {
		return nil, fmt.Errorf("candle range start (%s) is after its end (%s)", start, end)
	}

	if start != nil {
		params.Set("start", start.UTC().Format(time.RFC3339))
	}

	if end != nil {
		params.Set("end", end.UTC().Format(time.RFC3339))
	}

	resp, err := o.request(ctx, productPath(productID, "/candles"), params)
	if err != nil {
		return respOrNil(resp), err
	}

	resp.candles, err = parseCandles(resp.body, width)
	if err != nil {
		return resp, fmt.Errorf("failed to parse candles: %w", err)
	}

	return resp, nil
}

//
// ProductHistoricRatesRange retrieves every candle between start and end (inclusive) by sliding a
// window no wider than the exchange's per-request maximum across the range. Candles are returned
// oldest-first.
//
func (o *Client) ProductHistoricRatesRange(
	ctx context.Context,
	productID string,
	start time.Time,
	end time.Time,
	granularity exchange.Granularity,
) ([]exchange.Candle, error) {
	if !granularity.Valid() {
		return nil, fmt.Errorf("invalid candle granularity %d", int(granularity))
	}

	if start.After(end) {
		return nil, fmt.Errorf("candle range start (%s) is after its end (%s)", start, end)
	}

	var candles []exchange.Candle

	s, e, more := obtainWindowCursors(nil, start, end, granularity)

	for {
		resp, err := o.ProductHistoricRates(ctx, productID, s, e, &granularity)
		if err != nil {
			return nil, err
		}

		candles = append(candles, resp.Candles()...)

		if !more {
			break
		}

		s, e, more = obtainWindowCursors(s, start, end, granularity)
	}

	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].StartTime().Before(*candles[j].StartTime())
	})

	return candles, nil
}

//
// obtainWindowCursors initializes or slides the start and end timestamp cursors used to page
// through historic rates. Each window spans at most constants.CandleWindowMax candles. The returned
// sentinel is false once the window reaches the end of the range.
//
func obtainWindowCursors(
	prevStart *time.Time,
	rangeStart time.Time,
	rangeEnd time.Time,
	g exchange.Granularity,
) (*time.Time, *time.Time, bool) {
	window := time.Duration(constants.CandleWindowMax) * g.Duration()

	//
	// Prime or update the head cursor.
	//
	var start time.Time

	if prevStart == nil {
		start = rangeStart
	} else {
		start = prevStart.Add(window)
	}

	//
	// Update the tail cursor so that it lands on the last bucket of the window, and see if we are at
	// the end of the range.
	//
	end := start.Add(window - g.Duration())
	more := true

	if !end.Before(rangeEnd) {
		end = rangeEnd
		more = false
	}

	return &start, &end, more
}

//
// Product24hStats retrieves a market's 24 hour stats.
//
func (o *Client) Product24hStats(ctx context.Context, productID string) (exchange.Response, error) {
	return o.get(ctx, productPath(productID, "/stats"), nil)
}

//
// Currencies retrieves the currencies supported by Coinbase.
//
func (o *Client) Currencies(ctx context.Context) (exchange.Response, error) {
	return o.get(ctx, CurrenciesPath, nil)
}

//
// Time retrieves Coinbase's server time in both epoch and ISO format.
//
func (o *Client) Time(ctx context.Context) (exchange.Response, error) {
	return o.get(ctx, TimePath, nil)
}

//
// get is request for callers that only deal in exchange.Response values.
//
func (o *Client) get(ctx context.Context, endpoint string, params url.Values) (exchange.Response, error) {
	resp, err := o.request(ctx, endpoint, params)

	return respOrNil(resp), err
}

//
// respOrNil keeps a typed nil *Response from turning into a non-nil exchange.Response.
//
func respOrNil(resp *Response) exchange.Response {
	if resp == nil {
		return nil
	}

	return resp
}
