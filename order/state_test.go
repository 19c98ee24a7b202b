package order

import "testing"

func TestStatusPartition(t *testing.T) {
	open := []Status{
		StatusNew, StatusPartiallyFilled, StatusPendingCancel, StatusPendingNew,
		StatusCalculated, StatusAcceptedForBidding, StatusPendingReplace,
		StatusPendingExpire, StatusPendingPartialCancel, StatusPendingSuspend,
	}
	closed := []Status{
		StatusFilled, StatusDoneForToday, StatusCancelled, StatusReplaced,
		StatusStopped, StatusRejected, StatusSuspended, StatusExpired,
		StatusPartialCancel, StatusPartialCancelTooBig,
	}

	for _, s := range open {
		if !s.IsOpen() {
			t.Errorf("%s (%d) must be open", s, s)
		}
		if s.IsTerminal() {
			t.Errorf("%s (%d) must not be terminal", s, s)
		}
	}
	for _, s := range closed {
		if s.IsOpen() {
			t.Errorf("%s (%d) must be closed", s, s)
		}
		if !s.IsTerminal() {
			t.Errorf("%s (%d) must be terminal", s, s)
		}
	}

	// The partition must cover every known code exactly once: a new exchange
	// status shows up here as a gap instead of a silent misclassification.
	seen := make(map[Status]bool)
	for _, s := range append(append([]Status{}, open...), closed...) {
		if seen[s] {
			t.Errorf("status %d listed twice", s)
		}
		seen[s] = true
	}
	for code := StatusNew; code <= StatusPendingSuspend; code++ {
		if !code.Known() {
			t.Errorf("code %d should be known", code)
		}
		if !seen[code] {
			t.Errorf("code %d (%s) missing from partition", code, code)
		}
	}
}

func TestUnknownStatusIsClosed(t *testing.T) {
	s := Status(42)
	if s.Known() {
		t.Fatal("42 must not be a known code")
	}
	if s.IsOpen() {
		t.Fatal("an unrecognized status must never be treated as open")
	}
}

func TestSideString(t *testing.T) {
	if Buy.String() != "buy" || Sell.String() != "sell" {
		t.Fatalf("unexpected side names: %s/%s", Buy, Sell)
	}
}
