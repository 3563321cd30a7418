package exchange

import "fmt"

//
// HTTPError represents an error due to non-2xx response from an API endpoint. The body that came
// along with the status is kept so that callers can still inspect it.
//
type HTTPError struct {
	statusCode int
	body       []byte
}

func NewHTTPError(statusCode int, body []byte) *HTTPError {
	return &HTTPError{
		statusCode: statusCode,
		body:       body,
	}
}

func (o *HTTPError) StatusCode() int {
	return o.statusCode
}

func (o *HTTPError) Body() []byte {
	return o.body
}

func (o *HTTPError) Error() string {
	return fmt.Sprintf("server responded with a %d status code", o.statusCode)
}
