package exchange

import (
	"time"

	"github.com/shopspring/decimal"
)

//
// Candle generically provides an interface to objects that represent candlesticks (a.k.a. historic
// rates) provided in a response from a call to an exchange's API endpoint.
//
type Candle interface {

	//
	// StartTime returns a pointer to the structure representing the opening instant of the candle.
	//
	StartTime() *time.Time

	//
	// EndTime returns a pointer to the structure representing the closing instant of the candle. As
	// an example, a one minute candle might start at 2020/8/25 00:00:00:000000000 and end at
	// 2020/8/25 00:00:59:999999999.
	//
	EndTime() *time.Time

	Open() *decimal.Decimal
	High() *decimal.Decimal
	Low() *decimal.Decimal
	Close() *decimal.Decimal

	//
	// Volume returns a pointer to the structure representing the base currency volume traded during
	// the candle.
	//
	Volume() *decimal.Decimal
}
