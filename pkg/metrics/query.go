package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records search gateway outcomes.
type QueryMetrics struct {
	duration *prometheus.HistogramVec
	timeouts *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewQueryMetrics registers the query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "search_query_duration_seconds",
		Help:    "Duration of index queries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})
	timeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_query_timeouts_total",
		Help: "Index queries that exceeded their deadline.",
	}, []string{"collection"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_query_rejected_total",
		Help: "Queries rejected for refinement attributes outside the schema.",
	}, []string{"collection"})
	reg.MustRegister(duration, timeouts, rejected)
	return &QueryMetrics{
		duration: duration,
		timeouts: timeouts,
		rejected: rejected,
	}
}

// ObserveDuration records how long a query took.
func (m *QueryMetrics) ObserveDuration(collection string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(collection)).Observe(d.Seconds())
}

// IncTimeout counts a query deadline miss.
func (m *QueryMetrics) IncTimeout(collection string) {
	if m == nil || m.timeouts == nil {
		return
	}
	m.timeouts.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncRejected counts a query turned away for schema reasons.
func (m *QueryMetrics) IncRejected(collection string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(collection)).Inc()
}
