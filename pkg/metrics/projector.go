package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ProjectorMetrics records index projection outcomes.
type ProjectorMetrics struct {
	published        *prometheus.CounterVec
	retries          *prometheus.CounterVec
	publishFailures  *prometheus.CounterVec
	schemaViolations *prometheus.CounterVec
	oversellRaces    prometheus.Counter
	fanoutBatchSize  prometheus.Histogram
}

// NewProjectorMetrics registers the projector metrics on the provided registerer.
func NewProjectorMetrics(reg prometheus.Registerer) *ProjectorMetrics {
	if reg == nil {
		return &ProjectorMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projection_published_total",
		Help: "Index operations acknowledged by the index store.",
	}, []string{"collection", "operation"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projection_retries_total",
		Help: "Publish attempts that failed and were retried.",
	}, []string{"collection"})
	publishFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projection_publish_failures_total",
		Help: "Projections abandoned after exhausting publish retries.",
	}, []string{"collection"})
	schemaViolations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projection_schema_violations_total",
		Help: "Records rejected by schema validation before publish.",
	}, []string{"collection"})
	oversellRaces := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_oversell_races_total",
		Help: "Inventory projections where reserved quantity exceeded on-hand quantity.",
	})
	fanoutBatchSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "projection_fanout_batch_size",
		Help:    "Dependent records enumerated per reference-change fanout batch.",
		Buckets: []float64{1, 10, 50, 100, 200, 500, 1000},
	})
	reg.MustRegister(published, retries, publishFailures, schemaViolations, oversellRaces, fanoutBatchSize)
	return &ProjectorMetrics{
		published:        published,
		retries:          retries,
		publishFailures:  publishFailures,
		schemaViolations: schemaViolations,
		oversellRaces:    oversellRaces,
		fanoutBatchSize:  fanoutBatchSize,
	}
}

// IncPublished counts an acknowledged upsert or delete.
func (m *ProjectorMetrics) IncPublished(collection, operation string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(collection), normalizeLabel(operation)).Inc()
}

// IncRetry counts a failed publish attempt that will be retried.
func (m *ProjectorMetrics) IncRetry(collection string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncPublishFailure counts a projection given up after bounded retries.
func (m *ProjectorMetrics) IncPublishFailure(collection string) {
	if m == nil || m.publishFailures == nil {
		return
	}
	m.publishFailures.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncSchemaViolation counts a record that failed validation before publish.
func (m *ProjectorMetrics) IncSchemaViolation(collection string) {
	if m == nil || m.schemaViolations == nil {
		return
	}
	m.schemaViolations.WithLabelValues(normalizeLabel(collection)).Inc()
}

// IncOversellRace counts a reserved-exceeds-quantity observation. Not an
// error: concurrent reservations legitimately race and the transactional
// store reconciles them.
func (m *ProjectorMetrics) IncOversellRace() {
	if m == nil || m.oversellRaces == nil {
		return
	}
	m.oversellRaces.Inc()
}

// ObserveFanoutBatch records the size of one fanout enumeration batch.
func (m *ProjectorMetrics) ObserveFanoutBatch(size int) {
	if m == nil || m.fanoutBatchSize == nil {
		return
	}
	m.fanoutBatchSize.Observe(float64(size))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
