package coinbase

import (
	"fmt"

	"github.com/lukehollenback/cbpro/exchange"
)

//
// APIError implements the exchange.APIError interface for errors returned from Coinbase Pro API
// calls. It unwraps to the *exchange.HTTPError it arrived with.
//
type APIError struct {
	Msg string `json:"message"`

	httpErr *exchange.HTTPError
}

var _ exchange.APIError = (*APIError)(nil)

func (o *APIError) StatusCode() int {
	if o.httpErr == nil {
		return 0
	}

	return o.httpErr.StatusCode()
}

func (o *APIError) Message() string {
	return o.Msg
}

func (o *APIError) Error() string {
	return fmt.Sprintf(
		"the Coinbase Pro endpoint returned an API error (status: %d, message: %s)",
		o.StatusCode(), o.Message(),
	)
}

func (o *APIError) Unwrap() error {
	if o.httpErr == nil {
		return nil
	}

	return o.httpErr
}

//
// populated returns whether or not the structure appears to actually hold an error.
//
func (o *APIError) populated() bool {
	return o.Msg != ""
}
