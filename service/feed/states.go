package feed

import "fmt"

type State int

const (
	Disconnected State = iota // The feed service has no connection to the Coinbase Pro websocket API.
	Connecting                // The feed service is attempting to establish a connection to the Coinbase Pro websocket API.
	Connected                 // The feed service has connected to the Coinbase Pro websocket API.
	Subscribed                // The feed service has successfully subscribed to the heartbeat and ticker channels.
)

var stateNames = [...]string{"disconnected", "connecting", "connected", "subscribed"}

func (o State) String() string {
	if o < 0 || int(o) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(o))
	}

	return stateNames[o]
}
