package exchange

import (
	"testing"
	"time"
)

func TestParseGranularity(t *testing.T) {
	cases := map[string]Granularity{
		"1m":    OneMinute,
		"5m":    FiveMinute,
		"15m":   FifteenMinute,
		"1h":    OneHour,
		"6h":    SixHour,
		"1d":    OneDay,
		"60":    OneMinute,
		"21600": SixHour,
	}

	for in, want := range cases {
		got, err := ParseGranularity(in)
		if err != nil {
			t.Errorf("Parsing %q should have succeeded, but instead failed. (Error: %s)", in, err)
			continue
		}

		if got != want {
			t.Errorf("Parsing %q should have produced %s, but instead produced %s.", in, want, got)
		}
	}

	for _, in := range []string{"", "2m", "61", "1w", "-60"} {
		if _, err := ParseGranularity(in); err == nil {
			t.Errorf("Parsing %q should have failed, but did not.", in)
		}
	}
}

func TestGranularityDuration(t *testing.T) {
	if d := FifteenMinute.Duration(); d != 15*time.Minute {
		t.Errorf("A fifteen minute granularity should last 15m0s, but instead lasted %s.", d)
	}

	if s := OneDay.Seconds(); s != "86400" {
		t.Errorf("A one day granularity should be 86400 seconds, but instead was %s.", s)
	}

	if s := Granularity(7).String(); s != "7s" {
		t.Errorf("An unknown granularity should print as seconds, but instead printed as %s.", s)
	}
}

func TestBookLevel(t *testing.T) {
	for _, level := range []BookLevel{LevelOne, LevelTwo, LevelThree} {
		if !level.Valid() {
			t.Errorf("Level %s should be valid.", level)
		}
	}

	if LevelTwo.String() != "2" {
		t.Errorf("Level two should print as \"2\", but instead printed as %q.", LevelTwo.String())
	}

	if BookLevel(0).Valid() || BookLevel(4).Valid() {
		t.Errorf("Levels outside of 1 through 3 should be invalid.")
	}
}

func TestHTTPError(t *testing.T) {
	err := NewHTTPError(429, []byte(`{"message":"Slow down"}`))

	if err.StatusCode() != 429 {
		t.Errorf("The status code should have been 429, but instead was %d.", err.StatusCode())
	}

	if err.Error() != "server responded with a 429 status code" {
		t.Errorf("Unexpected error message %q.", err.Error())
	}
}
