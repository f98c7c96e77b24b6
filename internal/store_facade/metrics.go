package store_facade

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Store Façade's Prometheus instrumentation: a
// call-duration histogram and a retry counter, the pair named in
// spec's domain-stack wiring.
type Metrics struct {
	CallDuration *prometheus.HistogramVec
	RetriesTotal *prometheus.CounterVec
}

// NewMetrics registers a fresh set of collectors. Call once per
// process; tests that construct multiple Facades in the same binary
// should share one Metrics or use a private prometheus.Registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mlmd_store_call_duration_seconds",
				Help:    "Duration of Store Façade calls, by operation and outcome.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
		RetriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mlmd_store_retries_total",
				Help: "Count of transient-Aborted retries, by operation.",
			},
			[]string{"op"},
		),
	}
}
