// Package metrics exposes the ads core counters on the default Prometheus
// registerer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests  *prometheus.CounterVec
	Effects   *prometheus.CounterVec
	Rewards   prometheus.Counter
	RPCDenied prometheus.Counter
}

// New registers the ads counters with reg; pass prometheus.DefaultRegisterer
// in production wiring.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adgate",
			Subsystem: "ads",
			Name:      "requests_total",
			Help:      "Requests submitted to the ads scheduler, by kind.",
		}, []string{"kind"}),
		Effects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adgate",
			Subsystem: "ads",
			Name:      "effects_total",
			Help:      "Effects emitted by scheduler transitions, by kind.",
		}, []string{"kind"}),
		Rewards: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adgate",
			Subsystem: "ads",
			Name:      "rewards_dispatched_total",
			Help:      "Earned-reward events dispatched to the ledger.",
		}),
		RPCDenied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "adgate",
			Subsystem: "rpc",
			Name:      "rate_limited_total",
			Help:      "RPC requests denied by the rate limiter.",
		}),
	}
}
