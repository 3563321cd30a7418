package exchange

import (
	"net/http"

	"github.com/tidwall/gjson"
)

//
// Response generically provides an interface to an object that represents a response from a call to
// an exchange's API endpoint. The body is handed back verbatim; nothing about its shape is assumed.
//
type Response interface {

	//
	// Raw provides the raw HTTP response from the endpoint call that was made. Its body has already
	// been consumed.
	//
	Raw() *http.Response

	//
	// Body provides the undecoded JSON payload returned by the endpoint.
	//
	Body() []byte

	//
	// String provides the JSON payload as a string.
	//
	String() string

	//
	// Get runs a gjson path query (e.g. "bids.0.0" or "#.id") against the JSON payload.
	//
	Get(path string) gjson.Result

	//
	// Candles provides a slice of the candles returned from the endpoint call that was made (if there
	// were any).
	//
	Candles() []Candle
}
