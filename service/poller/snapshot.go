package poller

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lukehollenback/cbpro/exchange"
	"github.com/shopspring/decimal"
)

//
// Result holds the outcome of polling a single endpoint during a round.
//
type Result struct {
	Endpoint Endpoint
	Response exchange.Response // May be non-nil even when Err is (e.g. for HTTP errors).
	Err      error
	Elapsed  time.Duration
}

//
// Snapshot holds the outcome of a single polling round across every configured endpoint.
//
type Snapshot struct {
	RoundID uuid.UUID
	Product string
	Taken   time.Time
	Results map[Endpoint]*Result
}

//
// Failed returns the endpoints that errored during the round, in enum order.
//
func (o *Snapshot) Failed() []Endpoint {
	var ret []Endpoint

	for e, r := range o.Results {
		if r.Err != nil {
			ret = append(ret, e)
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })

	return ret
}

//
// LastPrice returns the price of the last trade as reported by the ticker (or, failing that, the
// stats) endpoint.
//
func (o *Snapshot) LastPrice() (decimal.Decimal, bool) {
	if v, ok := o.lookup(Ticker, "price"); ok {
		return v, true
	}

	return o.lookup(Stats, "last")
}

//
// BestBid returns the best bid as reported by the ticker (or, failing that, the order book)
// endpoint.
//
func (o *Snapshot) BestBid() (decimal.Decimal, bool) {
	if v, ok := o.lookup(Ticker, "bid"); ok {
		return v, true
	}

	return o.lookup(Book, "bids.0.0")
}

//
// BestAsk returns the best ask as reported by the ticker (or, failing that, the order book)
// endpoint.
//
func (o *Snapshot) BestAsk() (decimal.Decimal, bool) {
	if v, ok := o.lookup(Ticker, "ask"); ok {
		return v, true
	}

	return o.lookup(Book, "asks.0.0")
}

func (o *Snapshot) lookup(e Endpoint, path string) (decimal.Decimal, bool) {
	r, ok := o.Results[e]
	if !ok || r.Err != nil || r.Response == nil {
		return decimal.Zero, false
	}

	field := r.Response.Get(path)
	if !field.Exists() {
		return decimal.Zero, false
	}

	v, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Zero, false
	}

	return v, true
}
