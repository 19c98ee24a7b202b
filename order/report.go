package order

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ExecReport is one order-state object as returned by the exchange for
// create, cancel and status replies. Known fields are decoded for the book
// and strategy; the verbatim reply bytes are retained so fields the client
// does not interpret (and fields added by the exchange later) pass through
// unchanged when the report is re-stored.
type ExecReport struct {
	OrderID      string `json:"orderid"`
	Side         Side   `json:"side"`
	OrdType      Type   `json:"ordtype"`
	Status       Status `json:"ordstatus"`
	RejectReason string `json:"ordrejreason"`

	OrderQty  string `json:"orderqty"`
	CumQty    string `json:"cumqty"`
	LeavesQty string `json:"leavesqty"`

	Price     string `json:"price"`
	FillPrice string `json:"fill_price"`
	AvgPx     string `json:"AvgPx"`

	Instrument   string `json:"instrument"`
	ClOrderID    string `json:"clorderid"`
	ExecID       string `json:"execid"`
	Account      string `json:"account"`
	Timestamp    int64  `json:"timestamp"`
	TransactTime int64  `json:"transacttime"`

	raw json.RawMessage
}

// DecodeReport parses one order-state object, keeping the raw bytes alongside
// the decoded view.
func DecodeReport(raw json.RawMessage) (ExecReport, error) {
	var r ExecReport
	if err := json.Unmarshal(raw, &r); err != nil {
		return ExecReport{}, fmt.Errorf("decode exec report: %w", err)
	}
	if r.OrderID == "" {
		return ExecReport{}, fmt.Errorf("exec report without orderid")
	}
	r.raw = append(json.RawMessage(nil), raw...)
	return r, nil
}

// Raw returns the verbatim reply bytes this report was decoded from.
func (r ExecReport) Raw() json.RawMessage {
	return r.raw
}

// PriceDecimal parses the order price. Reports with an empty or malformed
// price (market orders, defensive exchange defaults) report false.
func (r ExecReport) PriceDecimal() (decimal.Decimal, bool) {
	if r.Price == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(r.Price)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
