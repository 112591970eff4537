package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestProjectorMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewProjectorMetrics(reg)

	m.IncPublished("products", "upsert")
	m.IncPublished("products", "upsert")
	m.IncRetry("inventory")
	m.IncOversellRace()
	m.ObserveFanoutBatch(42)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := counterValue(t, families, "projection_published_total"); got != 2 {
		t.Fatalf("published = %v, want 2", got)
	}
	if got := counterValue(t, families, "stock_oversell_races_total"); got != 1 {
		t.Fatalf("oversell = %v, want 1", got)
	}
}

func TestQueryMetricsNilSafe(t *testing.T) {
	var m *QueryMetrics
	m.ObserveDuration("products", time.Second)
	m.IncTimeout("products")
	m.IncRejected("products")

	empty := NewQueryMetrics(nil)
	empty.IncTimeout("products")
}

func counterValue(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range fam.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric family %s not found", name)
	return 0
}
