package strategy

import (
	"github.com/shopspring/decimal"

	"bitwyre-ws-maker/order"
)

// MidPricer recomputes the reference price for the next quote. Implementations
// are pure policy; the proposer feeds them the current book and the last
// reference price and stores whatever they return.
type MidPricer interface {
	Mid(book *order.Book, last decimal.Decimal) decimal.Decimal
}

// StaticMid keeps the reference price fixed at its last value, reproducing
// the behavior of quoting around the configured mid forever.
type StaticMid struct{}

func (StaticMid) Mid(_ *order.Book, last decimal.Decimal) decimal.Decimal {
	return last
}

// BookMid returns the mean of the best open bid and best open ask. With only
// one side (or neither) populated it falls back to the last reference price,
// since half a market is not a mid.
type BookMid struct{}

func (BookMid) Mid(book *order.Book, last decimal.Decimal) decimal.Decimal {
	bid, okBid := book.BestBid()
	ask, okAsk := book.BestAsk()
	if !okBid || !okAsk {
		return last
	}
	return bid.Add(ask).Div(decimal.NewFromInt(2))
}
