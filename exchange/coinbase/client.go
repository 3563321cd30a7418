package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lukehollenback/cbpro/exchange"
	"golang.org/x/time/rate"
)

//
// Client implements the exchange.PublicClient interface for the Coinbase Pro public REST API. It is
// safe for concurrent use; all calls share one token bucket rate limiter.
//
type Client struct {
	apiURL     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ exchange.PublicClient = (*Client)(nil)

//
// NewClient instantiates a client using DefaultConfig.
//
func NewClient() *Client {
	return newClient(DefaultConfig(), nil)
}

//
// NewClientFromConfig validates the provided configuration and instantiates a client from it.
//
func NewClientFromConfig(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return newClient(cfg, nil), nil
}

func newClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	o := &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		userAgent:  cfg.UserAgent,
		timeout:    cfg.RequestTimeout,
		httpClient: httpClient,
	}

	//
	// A zero rate limit disables limiting entirely. A zero burst size means the bucket holds one
	// second's worth of requests.
	//
	if cfg.RateLimit > 0 {
		burst := cfg.BurstSize
		if burst == 0 {
			burst = cfg.RateLimit
		}

		o.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return o
}

//
// RateLimited returns whether or not requests made by the client pass through a rate limiter.
//
func (o *Client) RateLimited() bool {
	return o.limiter != nil
}

//
// request makes a GET request against the specified endpoint of the Coinbase Pro API and returns a
// wrapped response and/or an error if something went wrong.
//
func (o *Client) request(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//
	// Build the request URL.
	//
	reqURL, err := url.Parse(o.apiURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url string: %w", err)
	}

	if len(params) > 0 {
		reqURL.RawQuery = params.Encode()
	}

	//
	// Block until the rate limiter lets us through (or the caller gives up).
	//
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			// NOTE ~> Wait reports a deadline it cannot meet before the context itself expires.
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			} else if _, ok := ctx.Deadline(); ok {
				err = fmt.Errorf("%w: %s", context.DeadlineExceeded, err)
			}

			return nil, fmt.Errorf("failure while waiting on rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("User-Agent", o.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failure while sending request: %w", err)
	}
	defer resp.Body.Close()

	wrappedResp := &Response{
		response: resp,
	}

	wrappedResp.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return wrappedResp, fmt.Errorf("failure while reading response body: %w", err)
	}

	//
	// Make sure the status code was valid. Coinbase usually explains what went wrong in a
	// {"message": "..."} body, which is preferred over the bare status when present.
	//
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := exchange.NewHTTPError(resp.StatusCode, wrappedResp.body)

		apiErr := &APIError{httpErr: httpErr}

		_ = json.Unmarshal(wrappedResp.body, apiErr)

		if apiErr.populated() {
			return wrappedResp, apiErr
		}

		return wrappedResp, httpErr
	}

	return wrappedResp, nil
}

func productPath(productID string, suffix string) string {
	return ProductsPath + "/" + url.PathEscape(productID) + suffix
}
