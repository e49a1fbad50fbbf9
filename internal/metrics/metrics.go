// Package metrics exposes Prometheus instrumentation for the load pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for load outcomes.
type Metrics struct {
	LoadsTotal        *prometheus.CounterVec
	RowsUpsertedTotal *prometheus.CounterVec
	LoadDuration      *prometheus.HistogramVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production; tests use a fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cusipd_loads_total",
			Help: "Total load attempts by record type and final status",
		}, []string{"record_type", "status"}),
		RowsUpsertedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cusipd_rows_upserted_total",
			Help: "Total rows merged into master tables by record type",
		}, []string{"record_type"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cusipd_load_duration_seconds",
			Help:    "Duration of load attempts by record type",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"record_type"}),
	}
}

// ObserveLoad records the outcome of one load attempt.
func (m *Metrics) ObserveLoad(recordType, status string, rows int64, d time.Duration) {
	if m == nil {
		return
	}
	m.LoadsTotal.WithLabelValues(recordType, status).Inc()
	m.RowsUpsertedTotal.WithLabelValues(recordType).Add(float64(rows))
	m.LoadDuration.WithLabelValues(recordType).Observe(d.Seconds())
}
