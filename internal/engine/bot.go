package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"bitwyre-ws-maker/gateway"
	"bitwyre-ws-maker/metrics"
	"bitwyre-ws-maker/order"
	"bitwyre-ws-maker/strategy"
)

// Caller is the correlated request/reply surface the bot drives. Satisfied by
// *gateway.Client; tests substitute scripted fakes.
type Caller interface {
	Call(command, payload string) (json.RawMessage, bool)
}

// Config holds the engine's duty-cycle parameters.
type Config struct {
	Instrument string
	Futures    bool
	Leverage   int           // sent on every create; 1 for spot
	Pause      time.Duration // inter-step pause, respects exchange rate limits
	CancelMax  int           // max orders cancelled per cycle
}

// Components are the engine's collaborators. Control carries create/cancel,
// Status carries order-status queries; the split matches the two dedicated
// exchange endpoints and keeps each session strictly alternating.
type Components struct {
	Control  Caller
	Status   Caller
	Book     *order.Book
	Proposer *strategy.Proposer
	Logger   *zap.Logger
	Metrics  *metrics.Collector
}

// Bot runs the perpetual propose/refresh/prune duty cycle. All book mutation
// happens on the single goroutine driving Run; only the hot-reloadable
// parameters are guarded for cross-goroutine updates.
type Bot struct {
	control  Caller
	status   Caller
	book     *order.Book
	proposer *strategy.Proposer
	log      *zap.Logger
	metrics  *metrics.Collector

	mu        sync.Mutex
	pause     time.Duration
	cancelMax int

	instrument string
	futures    bool
	leverage   int
}

// New validates the wiring and builds a Bot.
func New(cfg Config, c Components) (*Bot, error) {
	if cfg.Instrument == "" {
		return nil, fmt.Errorf("instrument is required")
	}
	if c.Control == nil || c.Status == nil {
		return nil, fmt.Errorf("control and status callers are required")
	}
	if c.Book == nil || c.Proposer == nil {
		return nil, fmt.Errorf("book and proposer are required")
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.New(nil)
	}
	leverage := cfg.Leverage
	if !cfg.Futures || leverage <= 0 {
		leverage = 1
	}
	return &Bot{
		control:    c.Control,
		status:     c.Status,
		book:       c.Book,
		proposer:   c.Proposer,
		log:        c.Logger,
		metrics:    c.Metrics,
		pause:      cfg.Pause,
		cancelMax:  cfg.CancelMax,
		instrument: cfg.Instrument,
		futures:    cfg.Futures,
		leverage:   leverage,
	}, nil
}

// createPayload is the create-order command payload. Optional exchange fields
// are omitted when unset.
type createPayload struct {
	Instrument  string `json:"instrument"`
	Side        int    `json:"side"`
	OrdType     int    `json:"ordtype"`
	OrderQty    string `json:"orderqty"`
	Price       string `json:"price,omitempty"` // required for non-market types
	Leverage    int    `json:"leverage"`
	StopPx      string `json:"stoppx,omitempty"`
	ClOrdID     string `json:"clordid,omitempty"`
	TimeInForce int    `json:"timeinforce,omitempty"`
	ExpireTime  int64  `json:"expiretime,omitempty"`
	ExecInst    string `json:"execinst,omitempty"`
}

// cancelPayload requests cancellation per order id; qty -1 means the full
// remaining quantity.
type cancelPayload struct {
	OrderIDs []string `json:"order_ids"`
	Qtys     []string `json:"qtys"`
}

// Run executes duty cycles until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info("bot loop starting", zap.String("instrument", b.instrument))
	for ctx.Err() == nil {
		b.Cycle(ctx)
	}
	b.log.Info("bot loop stopped")
}

// Cycle runs one duty cycle: propose a quote, refresh open-order statuses,
// then cancel a random sample. Pauses between sub-steps respect exchange rate
// limits, not concurrency; everything here runs sequentially.
func (b *Bot) Cycle(ctx context.Context) {
	b.Propose()
	if !b.rest(ctx) {
		return
	}
	b.Refresh()
	if !b.rest(ctx) {
		return
	}
	b.Prune()
	if !b.rest(ctx) {
		return
	}
	b.metrics.Cycles.Inc()
}

// Propose draws one randomized quote and submits it on the control session.
// A create that fails (transport, malformed reply, missing result) is logged
// and never becomes a tracked order.
func (b *Bot) Propose() {
	quote := b.proposer.Propose(b.book)

	payload, err := json.Marshal(createPayload{
		Instrument: b.instrument,
		Side:       int(quote.Side),
		OrdType:    int(order.TypeLimit),
		OrderQty:   quote.Qty.String(),
		Price:      quote.Price.String(),
		Leverage:   b.leverage,
	})
	if err != nil {
		b.log.Error("encode create payload failed", zap.Error(err))
		return
	}

	result, ok := b.control.Call(gateway.CmdCreateOrder, string(payload))
	if !ok {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdCreateOrder).Inc()
		b.log.Error("create order failed",
			zap.String("side", quote.Side.String()),
			zap.String("price", quote.Price.String()),
			zap.String("qty", quote.Qty.String()))
		return
	}
	report, err := order.DecodeReport(result)
	if err != nil {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdCreateOrder).Inc()
		b.log.Error("create reply unusable", zap.Error(err))
		return
	}

	b.book.ClassifyNew(report)
	b.metrics.OrdersCreated.Inc()
	b.metrics.OpenOrders.Set(float64(b.book.OpenCount()))
	b.metrics.MidPrice.Set(b.proposer.Mid().InexactFloat64())
	b.log.Info("order created",
		zap.String("order_id", report.OrderID),
		zap.String("side", report.Side.String()),
		zap.String("status", report.Status.String()),
		zap.String("price", report.Price),
		zap.String("qty", report.OrderQty))
}

// Refresh queries the status of every open order on the status session and
// merges each successful reply into the book. Failed queries are skipped;
// the order stays in its current open state and is retried next cycle.
func (b *Bot) Refresh() {
	for _, id := range b.book.OpenIDs() {
		report, ok := b.fetchStatus(id)
		if !ok {
			continue
		}
		openBefore := b.book.OpenCount()
		b.book.MergeRefresh(report)
		if b.book.OpenCount() < openBefore {
			b.metrics.OrdersClosed.Inc()
			b.log.Info("order closed",
				zap.String("order_id", report.OrderID),
				zap.String("status", report.Status.String()))
		}
	}
	b.metrics.OpenOrders.Set(float64(b.book.OpenCount()))
}

// fetchStatus issues one get RPC. The reply result is a sequence whose first
// element is the order-state object of interest.
func (b *Bot) fetchStatus(id string) (order.ExecReport, bool) {
	result, ok := b.status.Call(gateway.CmdGetOrder, "")
	if !ok {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdGetOrder).Inc()
		b.log.Error("order status query failed", zap.String("order_id", id))
		return order.ExecReport{}, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(result, &items); err != nil {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdGetOrder).Inc()
		b.log.Error("order status reply unusable", zap.String("order_id", id), zap.Error(err))
		return order.ExecReport{}, false
	}
	if len(items) == 0 {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdGetOrder).Inc()
		b.log.Error("order status reply empty",
			zap.String("order_id", id), zap.ByteString("result", result))
		return order.ExecReport{}, false
	}
	report, err := order.DecodeReport(items[0])
	if err != nil {
		b.metrics.RPCErrors.WithLabelValues(gateway.CmdGetOrder).Inc()
		b.log.Error("order status reply unusable", zap.String("order_id", id), zap.Error(err))
		return order.ExecReport{}, false
	}
	return report, true
}

// Prune cancels a bounded random sample of open orders, full remaining
// quantity each. A failed cancel leaves the order open: only a later status
// refresh reporting a terminal status moves it to closed, keeping the
// refresh path the single source of truth.
func (b *Bot) Prune() {
	for _, id := range b.book.SampleForCancel(b.currentCancelMax()) {
		payload, err := json.Marshal(cancelPayload{
			OrderIDs: []string{id},
			Qtys:     []string{"-1"},
		})
		if err != nil {
			b.log.Error("encode cancel payload failed", zap.Error(err))
			continue
		}
		if _, ok := b.control.Call(gateway.CmdCancelOrder, string(payload)); !ok {
			b.metrics.RPCErrors.WithLabelValues(gateway.CmdCancelOrder).Inc()
			b.log.Error("cancel failed", zap.String("order_id", id))
			continue
		}
		b.metrics.CancelsRequested.Inc()
		b.log.Info("cancel requested", zap.String("order_id", id))
	}
}

// UpdateParams applies hot-reloaded duty-cycle parameters.
func (b *Bot) UpdateParams(pause time.Duration, cancelMax int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pause > 0 {
		b.pause = pause
	}
	if cancelMax >= 0 {
		b.cancelMax = cancelMax
	}
}

func (b *Bot) currentCancelMax() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelMax
}

func (b *Bot) currentPause() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pause
}

// rest sleeps the configured inter-step pause, returning false when ctx was
// cancelled during the wait.
func (b *Bot) rest(ctx context.Context) bool {
	pause := b.currentPause()
	if pause <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
