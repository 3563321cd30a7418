package coinbase

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lukehollenback/cbpro/constants"
)

var validate = validator.New()

//
// Config holds everything needed to construct a Client. Fields left at their zero value by
// callers of NewClientFromConfig are NOT defaulted; start from DefaultConfig instead.
//
type Config struct {
	APIURL         string        `validate:"required,url"`
	RequestTimeout time.Duration `validate:"gt=0"`
	RateLimit      int           `validate:"gte=0"` // Requests per second. Zero disables rate limiting.
	BurstSize      int           `validate:"gte=0"` // Zero means a burst equal to RateLimit.
	UserAgent      string        `validate:"required"`
}

//
// DefaultConfig returns the configuration used by NewClient.
//
func DefaultConfig() Config {
	return Config{
		APIURL:         BaseURL,
		RequestTimeout: DefaultRequestTimeout,
		RateLimit:      DefaultRateLimit,
		BurstSize:      DefaultBurstSize,
		UserAgent:      constants.UserAgent(),
	}
}

func (o Config) Validate() error {
	return validate.Struct(o)
}

//
// ClientBuilder constructs Client instances. Anything not passed to the builder falls back to
// DefaultConfig.
//
//	client, err := coinbase.Builder().
//	  RequestTimeout(30 * time.Second).
//	  RateLimit(3).
//	  BurstSize(6).
//	  APIURL("https://api.pro.coinbase.com").
//	  Build()
//
type ClientBuilder struct {
	cfg        Config
	httpClient *http.Client
}

func Builder() *ClientBuilder {
	return &ClientBuilder{
		cfg: DefaultConfig(),
	}
}

func (o *ClientBuilder) APIURL(value string) *ClientBuilder {
	o.cfg.APIURL = value

	return o
}

func (o *ClientBuilder) RequestTimeout(value time.Duration) *ClientBuilder {
	o.cfg.RequestTimeout = value

	return o
}

func (o *ClientBuilder) RateLimit(value int) *ClientBuilder {
	o.cfg.RateLimit = value

	return o
}

func (o *ClientBuilder) BurstSize(value int) *ClientBuilder {
	o.cfg.BurstSize = value

	return o
}

func (o *ClientBuilder) UserAgent(value string) *ClientBuilder {
	o.cfg.UserAgent = value

	return o
}

//
// HTTPClient swaps out the underlying HTTP client (e.g. to install a custom transport). Per-request
// timeouts are still governed by RequestTimeout.
//
func (o *ClientBuilder) HTTPClient(value *http.Client) *ClientBuilder {
	o.httpClient = value

	return o
}

func (o *ClientBuilder) Config() Config {
	return o.cfg
}

func (o *ClientBuilder) Build() (*Client, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	return newClient(o.cfg, o.httpClient), nil
}
