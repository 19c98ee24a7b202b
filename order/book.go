package order

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Book classifies every order this client knows about into four partitions:
// open bids, open asks, closed bids, closed asks. An order id lives in at
// most one partition at a time, and the closed partitions are append-only:
// they are the audit trail for the run.
//
// A Book is owned by the single bot loop goroutine and is not safe for
// concurrent use. A caller that parallelizes refresh queries must serialize
// MergeRefresh behind its own lock.
type Book struct {
	openBids   []ExecReport
	openAsks   []ExecReport
	closedBids []ExecReport
	closedAsks []ExecReport

	rng *rand.Rand
}

// NewBook creates an empty book. rng drives cancellation sampling; pass nil
// to seed from the global source.
func NewBook(rng *rand.Rand) *Book {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Book{rng: rng}
}

// ClassifyNew files a freshly created order by side and status: open status
// into the matching open list, terminal status straight into the matching
// closed list (a create can be rejected on arrival).
func (b *Book) ClassifyNew(r ExecReport) {
	switch {
	case r.Side == Buy && r.Status.IsOpen():
		b.openBids = append(b.openBids, r)
	case r.Side == Sell && r.Status.IsOpen():
		b.openAsks = append(b.openAsks, r)
	case r.Side == Buy:
		b.closedBids = append(b.closedBids, r)
	case r.Side == Sell:
		b.closedAsks = append(b.closedAsks, r)
	}
}

// MergeRefresh applies one status-refresh result. An order found in the open
// list for its side is replaced in place while its status stays open, or
// moved to the matching closed list when the status is terminal. An id not
// present in any open list is a no-op: the order may already be closed, or
// was never tracked.
func (b *Book) MergeRefresh(r ExecReport) {
	open, closed := &b.openBids, &b.closedBids
	if r.Side == Sell {
		open, closed = &b.openAsks, &b.closedAsks
	}
	for i, existing := range *open {
		if existing.OrderID != r.OrderID {
			continue
		}
		if r.Status.IsOpen() {
			(*open)[i] = r
		} else {
			*open = append((*open)[:i], (*open)[i+1:]...)
			*closed = append(*closed, r)
		}
		return
	}
}

// OpenIDs returns the ids of all open orders, bids first.
func (b *Book) OpenIDs() []string {
	ids := make([]string, 0, len(b.openBids)+len(b.openAsks))
	for _, o := range b.openBids {
		ids = append(ids, o.OrderID)
	}
	for _, o := range b.openAsks {
		ids = append(ids, o.OrderID)
	}
	return ids
}

// OpenCount returns the number of currently open orders across both sides.
func (b *Book) OpenCount() int {
	return len(b.openBids) + len(b.openAsks)
}

// TotalCount returns the number of orders across all four partitions.
func (b *Book) TotalCount() int {
	return b.OpenCount() + len(b.closedBids) + len(b.closedAsks)
}

// SampleForCancel selects a bounded random subset of open order ids across
// both sides: no duplicates, never more than are currently open, empty when
// nothing is open or max is not positive.
func (b *Book) SampleForCancel(max int) []string {
	ids := b.OpenIDs()
	if max <= 0 || len(ids) == 0 {
		return nil
	}
	b.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if max < len(ids) {
		ids = ids[:max]
	}
	return ids
}

// BestBid returns the highest-priced open bid.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	return bestPrice(b.openBids, func(candidate, best decimal.Decimal) bool {
		return candidate.GreaterThan(best)
	})
}

// BestAsk returns the lowest-priced open ask.
func (b *Book) BestAsk() (decimal.Decimal, bool) {
	return bestPrice(b.openAsks, func(candidate, best decimal.Decimal) bool {
		return candidate.LessThan(best)
	})
}

func bestPrice(orders []ExecReport, better func(candidate, best decimal.Decimal) bool) (decimal.Decimal, bool) {
	var best decimal.Decimal
	found := false
	for _, o := range orders {
		p, ok := o.PriceDecimal()
		if !ok {
			continue
		}
		if !found || better(p, best) {
			best = p
			found = true
		}
	}
	return best, found
}

// OpenBids returns a copy of the open bid partition.
func (b *Book) OpenBids() []ExecReport { return copyReports(b.openBids) }

// OpenAsks returns a copy of the open ask partition.
func (b *Book) OpenAsks() []ExecReport { return copyReports(b.openAsks) }

// ClosedBids returns a copy of the closed bid partition.
func (b *Book) ClosedBids() []ExecReport { return copyReports(b.closedBids) }

// ClosedAsks returns a copy of the closed ask partition.
func (b *Book) ClosedAsks() []ExecReport { return copyReports(b.closedAsks) }

func copyReports(src []ExecReport) []ExecReport {
	out := make([]ExecReport, len(src))
	copy(out, src)
	return out
}
