package coinbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lukehollenback/cbpro/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleUnmarshal(t *testing.T) {
	var c Candle

	err := json.Unmarshal([]byte(`[1415398768, 0.32, 4.2, 0.35, 4.1, 12.3]`), &c)
	require.NoError(t, err)

	assert.Equal(t, time.Unix(1415398768, 0).UTC(), *c.StartTime())
	assert.True(t, c.Low().Equal(decimal.RequireFromString("0.32")))
	assert.True(t, c.High().Equal(decimal.RequireFromString("4.2")))
	assert.True(t, c.Open().Equal(decimal.RequireFromString("0.35")))
	assert.True(t, c.Close().Equal(decimal.RequireFromString("4.1")))
	assert.True(t, c.Volume().Equal(decimal.RequireFromString("12.3")))
}

func TestCandleUnmarshalKeepsPrecision(t *testing.T) {
	var c Candle

	err := json.Unmarshal([]byte(`[1415398768, 0.1, 0.30000000000000004, 0.2, 0.123456789123456789, 1]`), &c)
	require.NoError(t, err)

	assert.Equal(t, "0.123456789123456789", c.Close().String())
}

func TestCandleUnmarshalRejectsBadPayloads(t *testing.T) {
	tests := map[string]string{
		"too short":    `[1415398768, 0.32, 4.2]`,
		"not an array": `{"time": 1415398768}`,
		"bad number":   `[1415398768, "abc", 4.2, 0.35, 4.1, 12.3]`,
		"float time":   `[1415398768.5, 0.32, 4.2, 0.35, 4.1, 12.3]`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			var c Candle

			assert.Error(t, json.Unmarshal([]byte(payload), &c))
		})
	}
}

func TestParseCandlesSetsEndTime(t *testing.T) {
	candles, err := parseCandles([]byte(`[[1600000300, 1, 2, 1, 2, 3], [1600000000, 1, 2, 1, 2, 3]]`), exchange.FiveMinute)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	start := time.Unix(1600000300, 0).UTC()

	assert.Equal(t, start, *candles[0].StartTime())
	assert.Equal(t, start.Add(5*time.Minute-time.Nanosecond), *candles[0].EndTime())
}

func TestHistoricRatesDecodesCandles(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[[1600000060, 9.5, 11, 10, 10.5, 100.25], [1600000000, 9, 10.5, 9.5, 10, 50]]`)
	})

	resp, err := client.ProductHistoricRates(context.Background(), "BTC-USD", nil, nil, nil)
	require.NoError(t, err)

	candles := resp.Candles()
	require.Len(t, candles, 2)

	assert.True(t, candles[0].Close().Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, time.Unix(1600000060, 0).UTC().Add(time.Minute-time.Nanosecond), *candles[0].EndTime())
	assert.Equal(t, int64(1600000000), resp.Get("1.0").Int())
}

func TestHistoricRatesMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected": true}`)
	})

	resp, err := client.ProductHistoricRates(context.Background(), "BTC-USD", nil, nil, nil)
	assert.Error(t, err)

	require.NotNil(t, resp)
	assert.Equal(t, `{"unexpected": true}`, resp.String())

	//
	// A null entry among otherwise valid candles is an error, not a crash.
	//
	body := `[[1415398768,0.32,4.2,0.35,4.2,12.3],null]`

	client, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	})

	resp, err = client.ProductHistoricRates(context.Background(), "BTC-USD", nil, nil, nil)
	assert.ErrorContains(t, err, "candle 1 is null")

	require.NotNil(t, resp)
	assert.Equal(t, body, resp.String())
}

func TestObtainWindowCursors(t *testing.T) {
	rangeStart := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	//
	// Exactly one window's worth of candles fits in a single request.
	//
	s, e, more := obtainWindowCursors(nil, rangeStart, rangeStart.Add(299*time.Minute), exchange.OneMinute)
	assert.Equal(t, rangeStart, *s)
	assert.Equal(t, rangeStart.Add(299*time.Minute), *e)
	assert.False(t, more)

	//
	// One candle more than that takes two.
	//
	rangeEnd := rangeStart.Add(300 * time.Minute)

	s, e, more = obtainWindowCursors(nil, rangeStart, rangeEnd, exchange.OneMinute)
	assert.Equal(t, rangeStart.Add(299*time.Minute), *e)
	assert.True(t, more)

	s, e, more = obtainWindowCursors(s, rangeStart, rangeEnd, exchange.OneMinute)
	assert.Equal(t, rangeStart.Add(300*time.Minute), *s)
	assert.Equal(t, rangeEnd, *e)
	assert.False(t, more)
}

func TestHistoricRatesRangePagesAndSorts(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		//
		// Like the real endpoint, answer newest-first.
		//
		fmt.Fprintf(w, `[[%d, 1, 2, 1, 2, 3], [%d, 1, 2, 1, 2, 3]]`, start.Unix()+60, start.Unix())
	})

	rangeStart := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.Add(700 * time.Minute)

	candles, err := client.ProductHistoricRatesRange(context.Background(), "ETH-USD", rangeStart, rangeEnd, exchange.OneMinute)
	require.NoError(t, err)

	assert.Equal(t, 3, rec.count())
	require.Len(t, candles, 6)

	for i := 1; i < len(candles); i++ {
		assert.True(t, candles[i-1].StartTime().Before(*candles[i].StartTime()))
	}

	assert.Equal(t, rangeStart, *candles[0].StartTime())
	assert.Equal(t, rangeStart.Add(601*time.Minute), *candles[5].StartTime())

	for _, req := range rec.reqs {
		assert.Equal(t, "60", req.URL.Query().Get("granularity"))
		assert.True(t, strings.HasSuffix(req.URL.Path, "/ETH-USD/candles"))
	}
}

func TestHistoricRatesRangeStopsOnError(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"granularity too small for the requested time range"}`)
	})

	rangeStart := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	candles, err := client.ProductHistoricRatesRange(context.Background(), "ETH-USD", rangeStart, rangeStart.Add(24*time.Hour), exchange.OneMinute)
	assert.Error(t, err)
	assert.Nil(t, candles)
	assert.Equal(t, 1, rec.count())
}
