package coinbase

import (
	"net/http"

	"github.com/lukehollenback/cbpro/exchange"
	"github.com/tidwall/gjson"
)

//
// Response implements the exchange.Response interface for wrapped responses from the Coinbase Pro
// API.
//
type Response struct {
	response *http.Response
	body     []byte
	candles  []*Candle
}

var _ exchange.Response = (*Response)(nil)

func (o *Response) Raw() *http.Response {
	return o.response
}

func (o *Response) Body() []byte {
	return o.body
}

func (o *Response) String() string {
	return string(o.body)
}

func (o *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(o.body, path)
}

func (o *Response) Candles() []exchange.Candle {
	ret := make([]exchange.Candle, len(o.candles))

	for i, v := range o.candles {
		ret[i] = v
	}

	return ret
}
