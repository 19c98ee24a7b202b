// Package metrics provides Prometheus metrics for the bot loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates the bot's counters and gauges.
type Collector struct {
	OrdersCreated    prometheus.Counter
	OrdersClosed     prometheus.Counter
	CancelsRequested prometheus.Counter
	RPCErrors        *prometheus.CounterVec
	OpenOrders       prometheus.Gauge
	MidPrice         prometheus.Gauge
	Cycles           prometheus.Counter
}

// New registers the bot metrics on reg (nil registers on the default
// registry).
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &Collector{
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bot_orders_created_total",
			Help: "Orders accepted by the exchange and entered into the book",
		}),
		OrdersClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bot_orders_closed_total",
			Help: "Orders moved to a closed partition by a status refresh",
		}),
		CancelsRequested: factory.NewCounter(prometheus.CounterOpts{
			Name: "bot_cancels_requested_total",
			Help: "Cancel RPCs issued",
		}),
		RPCErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_rpc_errors_total",
			Help: "Failed RPC calls by command",
		}, []string{"command"}),
		OpenOrders: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bot_open_orders",
			Help: "Currently open orders across both sides",
		}),
		MidPrice: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bot_mid_price",
			Help: "Reference price used for the latest quote",
		}),
		Cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "bot_cycles_total",
			Help: "Completed duty cycles",
		}),
	}
}

// Serve exposes /metrics on addr; empty addr disables the endpoint.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, mux)
	}()
}
