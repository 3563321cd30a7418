package constants

import (
	"time"
)

const (
	LogPrefixFmt = "%-17s "

	AppName    = "cbpro"
	AppVersion = "0.3.0"

	//
	// CandleWindowMax is the maximum number of candles the exchange will return for a single
	// historic rates request. Requests spanning more than this are rejected outright.
	//
	CandleWindowMax = 300

	DefaultPollInterval = 10 * time.Second
	DefaultHistoryLen   = 32

	ShutdownTimeout = 10 * time.Second
)

//
// UserAgent returns the default User-Agent header value sent with every request.
//
func UserAgent() string {
	return AppName + "/" + AppVersion
}
