package exchange

import (
	"fmt"
	"strconv"
	"time"
)

//
// Granularity is an enum that represents the candle widths (in seconds) that can be retrieved from
// an exchange's historic rates endpoint.
//
type Granularity int

const (
	OneMinute     Granularity = 60
	FiveMinute    Granularity = 300
	FifteenMinute Granularity = 900
	OneHour       Granularity = 3600
	SixHour       Granularity = 21600
	OneDay        Granularity = 86400
)

var granularityNames = map[Granularity]string{
	OneMinute:     "1m",
	FiveMinute:    "5m",
	FifteenMinute: "15m",
	OneHour:       "1h",
	SixHour:       "6h",
	OneDay:        "1d",
}

//
// ParseGranularity accepts either a short name ("1m", "5m", "15m", "1h", "6h", "1d") or the
// number of seconds ("60", "300", ...) and returns the matching granularity.
//
func ParseGranularity(s string) (Granularity, error) {
	for g, name := range granularityNames {
		if name == s {
			return g, nil
		}
	}

	secs, err := strconv.Atoi(s)
	if err == nil && Granularity(secs).Valid() {
		return Granularity(secs), nil
	}

	return 0, fmt.Errorf("unsupported candle granularity %q", s)
}

func (o Granularity) Valid() bool {
	_, ok := granularityNames[o]

	return ok
}

//
// Duration returns the width of a single candle of this granularity.
//
func (o Granularity) Duration() time.Duration {
	return time.Duration(o) * time.Second
}

//
// Seconds returns the query parameter form of the granularity.
//
func (o Granularity) Seconds() string {
	return strconv.Itoa(int(o))
}

func (o Granularity) String() string {
	if name, ok := granularityNames[o]; ok {
		return name
	}

	return fmt.Sprintf("%ds", int(o))
}
