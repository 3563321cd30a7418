package coinbase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lukehollenback/cbpro/exchange"
	"github.com/shopspring/decimal"
)

// NOTE ~> The Coinbase Pro historic rates endpoint returns candles newest-first as arrays of the
//  following structure:
//
//  [0] 1415398768, // Bucket start time (epoch seconds)
//  [1] 0.32,       // Low
//  [2] 4.2,        // High
//  [3] 0.35,       // Open
//  [4] 4.2,        // Close
//  [5] 12.3        // Volume (base currency)

const (
	StartTimeIndex = 0
	LowIndex       = 1
	HighIndex      = 2
	OpenIndex      = 3
	CloseIndex     = 4
	VolumeIndex    = 5

	candleFieldCount = 6
)

//
// Candle implements the exchange.Candle interface for candlesticks provided by the Coinbase Pro API.
//
type Candle struct {
	start  time.Time
	end    time.Time
	open   decimal.Decimal
	high   decimal.Decimal
	low    decimal.Decimal
	close  decimal.Decimal
	volume decimal.Decimal
}

var _ exchange.Candle = (*Candle)(nil)

func (o *Candle) StartTime() *time.Time { return &o.start }
func (o *Candle) EndTime() *time.Time { return &o.end }
func (o *Candle) Open() *decimal.Decimal { return &o.open }
func (o *Candle) High() *decimal.Decimal { return &o.high }
func (o *Candle) Low() *decimal.Decimal { return &o.low }
func (o *Candle) Close() *decimal.Decimal { return &o.close }
func (o *Candle) Volume() *decimal.Decimal { return &o.volume }

func (o *Candle) String() string {
	return fmt.Sprintf(
		"%s O:%s H:%s L:%s C:%s V:%s",
		o.start.Format(time.RFC3339), o.open, o.high, o.low, o.close, o.volume,
	)
}

//
// UnmarshalJSON implements the json.Unmarshaler interface for Candle structures so that the JSON
// arrays provided by the Coinbase Pro API that represent them can be properly unmarshalled. The end
// time is left unset; see setGranularity.
//
func (o *Candle) UnmarshalJSON(data []byte) error {
	//
	// Decode into json.Number values so that prices never take a detour through float64.
	//
	var raw []json.Number

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode candle (%s): %w", data, err)
	}

	if len(raw) < candleFieldCount {
		return fmt.Errorf("candle has %d fields, expected %d (%s)", len(raw), candleFieldCount, data)
	}

	//
	// Parse the start time of the candle.
	//
	start, err := raw[StartTimeIndex].Int64()
	if err != nil {
		return fmt.Errorf("failed to parse start time (%s): %w", raw[StartTimeIndex], err)
	}

	o.start = time.Unix(start, 0).UTC()

	//
	// Parse the open, high, low, close, and volume values of the candle.
	//
	fields := []struct {
		name string
		idx  int
		dst  *decimal.Decimal
	}{
		{"low", LowIndex, &o.low},
		{"high", HighIndex, &o.high},
		{"open", OpenIndex, &o.open},
		{"close", CloseIndex, &o.close},
		{"volume", VolumeIndex, &o.volume},
	}

	for _, f := range fields {
		*f.dst, err = decimal.NewFromString(raw[f.idx].String())
		if err != nil {
			return fmt.Errorf("failed to parse %s (%s): %w", f.name, raw[f.idx], err)
		}
	}

	return nil
}

//
// setGranularity derives the closing instant of the candle from its width.
//
func (o *Candle) setGranularity(g exchange.Granularity) {
	o.end = o.start.Add(g.Duration()).Add(-1 * time.Nanosecond)
}

//
// parseCandles decodes a historic rates payload. Candles without trades are simply absent from the
// exchange's response; no gaps are filled in.
//
func parseCandles(body []byte, g exchange.Granularity) ([]*Candle, error) {
	var candles []*Candle

	if err := json.Unmarshal(body, &candles); err != nil {
		return nil, err
	}

	for i, c := range candles {
		if c == nil {
			return nil, fmt.Errorf("candle %d is null", i)
		}

		c.setGranularity(g)
	}

	return candles, nil
}
