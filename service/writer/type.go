package writer

import "fmt"

//
// Type is an enum that represents a type of data point to be written out.
//
type Type int

const (
	LastPrice Type = iota
	BestBid
	BestAsk
	ClosingPrice
)

var typeNames = [...]string{"LastPrice", "BestBid", "BestAsk", "ClosingPrice"}

func (o Type) String() string {
	if o < 0 || int(o) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(o))
	}

	return typeNames[o]
}
