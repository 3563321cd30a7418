package coinbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lukehollenback/cbpro/exchange"
	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
	"github.com/shopspring/decimal"
)

// NOTE ~> Everything in here is optional sugar. Endpoint calls hand back the payload untouched, and
//  callers that only need a field or two are better served by exchange.Response.Get().

var errNoResponse = errors.New("no response to decode")

//
// Ticker is a decimal-precise model of the product ticker payload.
//
type Ticker struct {
	TradeID int64           `json:"trade_id"`
	Price   decimal.Decimal `json:"price"`
	Size    decimal.Decimal `json:"size"`
	Bid     decimal.Decimal `json:"bid"`
	Ask     decimal.Decimal `json:"ask"`
	Volume  decimal.Decimal `json:"volume"`
	Time    time.Time       `json:"time"`
}

//
// Spread returns the difference between the best ask and the best bid.
//
func (o *Ticker) Spread() decimal.Decimal {
	return o.Ask.Sub(o.Bid)
}

//
// Stats is a decimal-precise model of the product 24h stats payload.
//
type Stats struct {
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Last        decimal.Decimal `json:"last"`
	Volume      decimal.Decimal `json:"volume"`
	Volume30Day decimal.Decimal `json:"volume_30day"`
}

func DecodeTicker(resp exchange.Response) (*Ticker, error) {
	var ticker Ticker

	if err := decode(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

func DecodeStats(resp exchange.Response) (*Stats, error) {
	var stats Stats

	if err := decode(resp, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func DecodeBook(resp exchange.Response) (*coinbasepro.Book, error) {
	var book coinbasepro.Book

	if err := decode(resp, &book); err != nil {
		return nil, err
	}

	return &book, nil
}

func DecodeProducts(resp exchange.Response) ([]coinbasepro.Product, error) {
	var products []coinbasepro.Product

	if err := decode(resp, &products); err != nil {
		return nil, err
	}

	return products, nil
}

func DecodeProduct(resp exchange.Response) (*coinbasepro.Product, error) {
	var product coinbasepro.Product

	if err := decode(resp, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func DecodeTrades(resp exchange.Response) ([]coinbasepro.Trade, error) {
	var trades []coinbasepro.Trade

	if err := decode(resp, &trades); err != nil {
		return nil, err
	}

	return trades, nil
}

func DecodeHistoricRates(resp exchange.Response) ([]coinbasepro.HistoricRate, error) {
	var rates []coinbasepro.HistoricRate

	if err := decode(resp, &rates); err != nil {
		return nil, err
	}

	return rates, nil
}

func DecodeCurrencies(resp exchange.Response) ([]coinbasepro.Currency, error) {
	var currencies []coinbasepro.Currency

	if err := decode(resp, &currencies); err != nil {
		return nil, err
	}

	return currencies, nil
}

func DecodeServerTime(resp exchange.Response) (*coinbasepro.ServerTime, error) {
	var serverTime coinbasepro.ServerTime

	if err := decode(resp, &serverTime); err != nil {
		return nil, err
	}

	return &serverTime, nil
}

func decode(resp exchange.Response, v interface{}) error {
	if resp == nil {
		return errNoResponse
	}

	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}

	return nil
}
