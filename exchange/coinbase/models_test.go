package coinbase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(body string) *Response {
	return &Response{body: []byte(body)}
}

func TestDecodeBook(t *testing.T) {
	book, err := DecodeBook(fixture(`{
		"sequence": 3,
		"bids": [["295.96", "4.39088265", 2]],
		"asks": [["295.97", "25.23542881", 12], ["295.98", "1.5", 1]]
	}`))
	require.NoError(t, err)

	assert.Equal(t, int64(3), book.Sequence)
	require.Len(t, book.Bids, 1)
	assert.Len(t, book.Asks, 2)
	assert.Equal(t, "295.96", book.Bids[0].Price)
}

func TestDecodeTickerAndSpread(t *testing.T) {
	ticker, err := DecodeTicker(fixture(`{
		"trade_id": 4729088,
		"price": "333.99",
		"size": "0.193",
		"bid": "333.98",
		"ask": "333.99",
		"volume": "5957.11914015",
		"time": "2015-11-14T20:46:03.511254Z"
	}`))
	require.NoError(t, err)

	assert.Equal(t, int64(4729088), ticker.TradeID)
	assert.True(t, ticker.Price.Equal(decimal.RequireFromString("333.99")))
	assert.Equal(t, "0.01", ticker.Spread().String())
	assert.Equal(t, 2015, ticker.Time.Year())
}

func TestDecodeStats(t *testing.T) {
	stats, err := DecodeStats(fixture(`{
		"open": "6745.61",
		"high": "7292.11",
		"low": "6650",
		"last": "6813.19",
		"volume": "26185.51325269",
		"volume_30day": "1019451.11188405"
	}`))
	require.NoError(t, err)

	assert.True(t, stats.Low.Equal(decimal.NewFromInt(6650)))
	assert.True(t, stats.Volume30Day.Equal(decimal.RequireFromString("1019451.11188405")))
}

func TestDecodeServerTime(t *testing.T) {
	serverTime, err := DecodeServerTime(fixture(`{"iso": "2015-01-07T23:47:25.201Z", "epoch": 1420674445.201}`))
	require.NoError(t, err)

	assert.Equal(t, "2015-01-07T23:47:25.201Z", serverTime.ISO)
}

func TestDecodeCurrencies(t *testing.T) {
	currencies, err := DecodeCurrencies(fixture(`[
		{"id": "BTC", "name": "Bitcoin", "min_size": "0.00000001"},
		{"id": "USD", "name": "United States Dollar", "min_size": "0.01000000"}
	]`))
	require.NoError(t, err)

	require.Len(t, currencies, 2)
	assert.Equal(t, "BTC", currencies[0].ID)
	assert.Equal(t, "United States Dollar", currencies[1].Name)
}

func TestDecodeProducts(t *testing.T) {
	products, err := DecodeProducts(fixture(`[
		{"id": "BTC-USD", "base_currency": "BTC", "quote_currency": "USD"},
		{"id": "ETH-USD", "base_currency": "ETH", "quote_currency": "USD"}
	]`))
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "ETH-USD", products[1].ID)

	product, err := DecodeProduct(fixture(`{"id": "SOL-USD", "base_currency": "SOL", "quote_currency": "USD"}`))
	require.NoError(t, err)
	assert.Equal(t, "SOL-USD", product.ID)
}

func TestDecodeHistoricRates(t *testing.T) {
	rates, err := DecodeHistoricRates(fixture(`[[1415398768, 0.32, 4.2, 0.35, 4.2, 12.3]]`))
	require.NoError(t, err)

	require.Len(t, rates, 1)
	assert.InDelta(t, 4.2, rates[0].Close, 0.000001)
	assert.Equal(t, int64(1415398768), rates[0].Time.Unix())
}

func TestDecodeTrades(t *testing.T) {
	trades, err := DecodeTrades(fixture(`[
		{"time": "2014-11-07T22:19:28.578544Z", "trade_id": 74, "price": "10.00000000", "size": "0.01000000", "side": "buy"}
	]`))
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, "buy", trades[0].Side)
}

func TestDecodeFailures(t *testing.T) {
	_, err := DecodeBook(nil)
	assert.ErrorIs(t, err, errNoResponse)

	_, err = DecodeCurrencies(fixture(`{"message": "not a list"}`))
	assert.Error(t, err)

	_, err = DecodeTicker(fixture(`not json`))
	assert.Error(t, err)
}
