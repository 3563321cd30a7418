package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lukehollenback/cbpro/exchange"
)

//
// options holds the one-shot request described by the command line.
//
type options struct {
	endpoint    string
	product     string
	level       int
	granularity string
	start       string
	end         string
	after       *uint64 // Nil unless -after was passed, so that an explicit zero is still sent.
}

//
// fetch issues the single request described by the provided options.
//
func fetch(ctx context.Context, client exchange.PublicClient, opts options) (exchange.Response, error) {
	needsProduct := map[string]bool{
		"product": true, "book": true, "ticker": true, "trades": true, "candles": true, "stats": true,
	}

	if needsProduct[opts.endpoint] && opts.product == "" {
		return nil, fmt.Errorf("the %s endpoint requires a product", opts.endpoint)
	}

	switch opts.endpoint {
	case "time":
		return client.Time(ctx)
	case "currencies":
		return client.Currencies(ctx)
	case "products":
		return client.Products(ctx)
	case "product":
		return client.Product(ctx, opts.product)
	case "book":
		return client.ProductOrderBook(ctx, opts.product, exchange.BookLevel(opts.level))
	case "ticker":
		return client.ProductTicker(ctx, opts.product)
	case "stats":
		return client.Product24hStats(ctx, opts.product)

	case "trades":
		return client.ProductTrades(ctx, opts.product, opts.after)

	case "candles":
		start, end, g, err := opts.candleParams()
		if err != nil {
			return nil, err
		}

		return client.ProductHistoricRates(ctx, opts.product, start, end, g)

	default:
		return nil, fmt.Errorf("unknown endpoint %q", opts.endpoint)
	}
}

//
// candleParams parses the optional start, end, and granularity of a candles request. Anything left
// blank is returned as nil.
//
func (o options) candleParams() (*time.Time, *time.Time, *exchange.Granularity, error) {
	var start, end *time.Time
	var g *exchange.Granularity

	if o.start != "" {
		t, err := time.Parse(time.RFC3339, o.start)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid start timestamp: %w", err)
		}

		start = &t
	}

	if o.end != "" {
		t, err := time.Parse(time.RFC3339, o.end)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid end timestamp: %w", err)
		}

		end = &t
	}

	if o.granularity != "" {
		parsed, err := exchange.ParseGranularity(o.granularity)
		if err != nil {
			return nil, nil, nil, err
		}

		g = &parsed
	}

	return start, end, g, nil
}

//
// rangeParams is candleParams for a paged candles request, where every parameter is required.
//
func (o options) rangeParams() (time.Time, time.Time, exchange.Granularity, error) {
	start, end, g, err := o.candleParams()
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}

	if start == nil || end == nil {
		return time.Time{}, time.Time{}, 0, errors.New("a candle range requires both a start and an end")
	}

	if g == nil {
		return *start, *end, exchange.OneMinute, nil
	}

	return *start, *end, *g, nil
}

//
// envOr returns the value of the specified environment variable, or the fallback if it is unset.
//
func envOr(key string, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return fallback
}

func envIntOr(key string, fallback int) int {
	if v, err := strconv.Atoi(envOr(key, "")); err == nil {
		return v
	}

	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(envOr(key, "")); err == nil {
		return v
	}

	return fallback
}
