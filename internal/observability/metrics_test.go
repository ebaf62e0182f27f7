package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWritePrometheusRendersSeries(t *testing.T) {
	m := New(MetricsConfig{Enabled: true})
	m.ObserveAPI("POST", "/api/contracts/:id/fund", "200", 20*time.Millisecond)
	m.ObserveAggregateOperation("Collab.FundEscrow", "success", 5*time.Millisecond)
	m.IncTransition("IN_NEGOTIATION", "HIRED")
	m.ObserveSideEffect("notify_creator", errors.New("boom"), time.Millisecond)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`collab_api_requests_total{method="POST",route="/api/contracts/:id/fund",status="200"} 1`,
		`collab_aggregate_operations_total{operation="Collab.FundEscrow",status="success"} 1`,
		`collab_lifecycle_transitions_total{from="IN_NEGOTIATION",to="HIRED"} 1`,
		`collab_side_effects_total{effect="notify_creator",status="failed"} 1`,
		`collab_api_request_duration_seconds_bucket{method="POST",route="/api/contracts/:id/fund",status="200",le="+Inf"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing series %q in:\n%s", want, out)
		}
	}
	if got := m.TransitionCount("IN_NEGOTIATION", "HIRED"); got != 1 {
		t.Fatalf("transition count: want=1 got=%v", got)
	}
	if got := m.SideEffectCount("notify_creator", "failed"); got != 1 {
		t.Fatalf("side effect count: want=1 got=%v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.IncTransition("A", "B")
	m.ObserveSideEffect("x", nil, 0)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
	if Init(nil, MetricsConfig{}) != nil {
		t.Fatalf("disabled metrics should be nil")
	}
}

func TestLabelEscaping(t *testing.T) {
	got := seriesKey([]string{"route"}, []string{"a\"b\\c\n"})
	if got != `{route="a\"b\\c\n"}` {
		t.Fatalf("escaped label: %s", got)
	}
	if withLe("", "0.5") != `{le="0.5"}` {
		t.Fatalf("empty label le")
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := NewHistogramVec("collab_test_seconds", "test", []string{"op"}, []float64{1, 0.5})
	h.Observe(0.25, "fund")
	h.Observe(0.75, "fund")
	h.Observe(3, "fund")

	var buf bytes.Buffer
	if err := h.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`collab_test_seconds_bucket{op="fund",le="0.5"} 1`,
		`collab_test_seconds_bucket{op="fund",le="1"} 2`,
		`collab_test_seconds_bucket{op="fund",le="+Inf"} 3`,
		`collab_test_seconds_sum{op="fund"} 4`,
		`collab_test_seconds_count{op="fund"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCounterIgnoresNegativeAdds(t *testing.T) {
	c := NewCounter("collab_test_total", "test")
	c.Add(2)
	c.Add(-1)
	if c.Value() != 2 {
		t.Fatalf("counter value: want=2 got=%v", c.Value())
	}
	var nilCounter *Counter
	nilCounter.Inc()
	if nilCounter.Value() != 0 {
		t.Fatalf("nil counter should read zero")
	}
}
