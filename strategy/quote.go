package strategy

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"bitwyre-ws-maker/order"
)

// Params are the quote-shaping knobs. Spreads are fractional offsets from the
// mid-price (0.01 = 1%).
type Params struct {
	MidPrice       decimal.Decimal
	Qty            decimal.Decimal
	PricePrecision int32
	QtyPrecision   int32
	MinSpread      float64
	MaxSpread      float64
}

// Quote is one proposed limit order, already rounded to the configured
// precisions.
type Quote struct {
	Side  order.Side
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// Proposer draws randomized quotes around a moving reference price. The
// reference starts at the configured mid-price and is recomputed by the
// MidPricer once the book is non-empty.
type Proposer struct {
	mu     sync.Mutex
	params Params
	mid    decimal.Decimal
	pricer MidPricer
	rng    *rand.Rand
}

// NewProposer builds a proposer. pricer defaults to BookMid, rng to a
// globally-seeded source.
func NewProposer(params Params, pricer MidPricer, rng *rand.Rand) *Proposer {
	if pricer == nil {
		pricer = BookMid{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Proposer{params: params, mid: params.MidPrice, pricer: pricer, rng: rng}
}

// Propose returns the next quote. With no open orders on either side the
// current reference price is quoted directly, no spread applied (on a fresh
// book that is the configured initial mid-price); otherwise the reference is
// recomputed and a uniformly drawn spread is applied below mid for bids,
// above for asks.
func (p *Proposer) Propose(book *order.Book) Quote {
	p.mu.Lock()
	defer p.mu.Unlock()

	side := order.Buy
	if p.rng.Intn(2) == 1 {
		side = order.Sell
	}
	qty := p.params.Qty.Round(p.params.QtyPrecision)

	if book.OpenCount() == 0 {
		return Quote{
			Side:  side,
			Price: p.mid.Round(p.params.PricePrecision),
			Qty:   qty,
		}
	}

	p.mid = p.pricer.Mid(book, p.mid)
	spread := p.params.MinSpread + p.rng.Float64()*(p.params.MaxSpread-p.params.MinSpread)
	factor := decimal.NewFromFloat(1 - spread)
	if side == order.Sell {
		factor = decimal.NewFromFloat(1 + spread)
	}
	return Quote{
		Side:  side,
		Price: p.mid.Mul(factor).Round(p.params.PricePrecision),
		Qty:   qty,
	}
}

// UpdateSpread replaces the spread bounds; used by config hot reload.
func (p *Proposer) UpdateSpread(min, max float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.params.MinSpread = min
	p.params.MaxSpread = max
}

// Mid returns the current reference price.
func (p *Proposer) Mid() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mid
}
