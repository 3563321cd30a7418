package poller

import (
	"fmt"
	"strings"
)

//
// Endpoint is an enum that represents a public market data endpoint the Poller Service can poll on
// every round.
//
type Endpoint int

const (
	Ticker Endpoint = iota
	Book
	Stats
	Candles
	Trades
)

var endpointNames = [...]string{"ticker", "book", "stats", "candles", "trades"}

func (o Endpoint) String() string {
	if o < 0 || int(o) >= len(endpointNames) {
		return fmt.Sprintf("endpoint(%d)", int(o))
	}

	return endpointNames[o]
}

//
// ParseEndpoints parses a comma separated list of endpoint names (e.g. "ticker,book").
//
func ParseEndpoints(s string) ([]Endpoint, error) {
	var ret []Endpoint

	seen := make(map[Endpoint]bool)

	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}

		found := false

		for i, v := range endpointNames {
			if v == name {
				if !seen[Endpoint(i)] {
					ret = append(ret, Endpoint(i))
					seen[Endpoint(i)] = true
				}

				found = true

				break
			}
		}

		if !found {
			return nil, fmt.Errorf("unknown endpoint %q (expected one of %s)", name, strings.Join(endpointNames[:], ", "))
		}
	}

	return ret, nil
}
