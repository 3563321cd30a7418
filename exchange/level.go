package exchange

import "strconv"

//
// BookLevel is an enum that represents the depth at which an order book snapshot is requested.
//
type BookLevel int

const (
	LevelOne   BookLevel = iota + 1 // Best bid and best ask only.
	LevelTwo                        // Top fifty bids and asks, aggregated per price.
	LevelThree                      // The full order book, unaggregated.
)

func (o BookLevel) Valid() bool {
	return o >= LevelOne && o <= LevelThree
}

func (o BookLevel) String() string {
	return strconv.Itoa(int(o))
}
