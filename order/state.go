package order

// Side is the exchange-side numeric order side.
type Side int

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Type is the exchange-side numeric order type.
type Type int

const (
	TypeMarket    Type = 1
	TypeLimit     Type = 2
	TypeStop      Type = 3
	TypeStopLimit Type = 4
	TypePostOnly  Type = 19
	TypeIOC       Type = 20
	TypeLimitIOC  Type = 21
	TypeFOK       Type = 22
)

// Status is the exchange-side numeric order status. The open/closed partition
// below is the sole authority for reclassification: no other signal (such as
// absence from a refresh batch) may move an order to closed.
type Status int

const (
	StatusNew                  Status = 0
	StatusPartiallyFilled      Status = 1
	StatusFilled               Status = 2
	StatusDoneForToday         Status = 3
	StatusCancelled            Status = 4
	StatusReplaced             Status = 5
	StatusPendingCancel        Status = 6
	StatusStopped              Status = 7
	StatusRejected             Status = 8
	StatusSuspended            Status = 9
	StatusPendingNew           Status = 10
	StatusCalculated           Status = 11
	StatusExpired              Status = 12
	StatusAcceptedForBidding   Status = 13
	StatusPendingReplace       Status = 14
	StatusPendingExpire        Status = 15
	StatusPartialCancel        Status = 16
	StatusPartialCancelTooBig  Status = 17
	StatusPendingPartialCancel Status = 18
	StatusPendingSuspend       Status = 19
)

// IsOpen reports whether the status belongs to the OPEN partition. Every
// known code is enumerated so an unrecognized exchange status falls through
// to closed and is caught by the partition test rather than silently kept
// open forever.
func (s Status) IsOpen() bool {
	switch s {
	case StatusNew, StatusPartiallyFilled, StatusPendingCancel, StatusPendingNew,
		StatusCalculated, StatusAcceptedForBidding, StatusPendingReplace,
		StatusPendingExpire, StatusPendingPartialCancel, StatusPendingSuspend:
		return true
	case StatusFilled, StatusDoneForToday, StatusCancelled, StatusReplaced,
		StatusStopped, StatusRejected, StatusSuspended, StatusExpired,
		StatusPartialCancel, StatusPartialCancelTooBig:
		return false
	default:
		return false
	}
}

// IsTerminal reports whether the status belongs to the CLOSED partition.
// Closed is absorbing: once an order reaches a terminal status it never
// returns to an open collection.
func (s Status) IsTerminal() bool {
	return !s.IsOpen()
}

// Known reports whether the code is part of the recognized status set.
func (s Status) Known() bool {
	return s >= StatusNew && s <= StatusPendingSuspend
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusPartiallyFilled:
		return "PartiallyFilled"
	case StatusFilled:
		return "Filled"
	case StatusDoneForToday:
		return "DoneForToday"
	case StatusCancelled:
		return "Cancelled"
	case StatusReplaced:
		return "Replaced"
	case StatusPendingCancel:
		return "PendingCancel"
	case StatusStopped:
		return "Stopped"
	case StatusRejected:
		return "Rejected"
	case StatusSuspended:
		return "Suspended"
	case StatusPendingNew:
		return "PendingNew"
	case StatusCalculated:
		return "Calculated"
	case StatusExpired:
		return "Expired"
	case StatusAcceptedForBidding:
		return "AcceptedForBidding"
	case StatusPendingReplace:
		return "PendingReplace"
	case StatusPendingExpire:
		return "PendingExpire"
	case StatusPartialCancel:
		return "PartialCancel"
	case StatusPartialCancelTooBig:
		return "PartialCancelTooBig"
	case StatusPendingPartialCancel:
		return "PendingPartialCancel"
	case StatusPendingSuspend:
		return "PendingSuspend"
	default:
		return "Unknown"
	}
}
