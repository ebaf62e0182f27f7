package observability

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Metric families rendered in the Prometheus text exposition format. A
// family owns its labelled series; series print in key order so successive
// scrapes diff cleanly.

type family struct {
	name   string
	help   string
	kind   string
	labels []string

	mu     sync.RWMutex
	series map[string]float64
}

func newFamily(name, help, kind string, labels []string) *family {
	return &family{name: name, help: help, kind: kind, labels: labels, series: map[string]float64{}}
}

func (f *family) update(values []string, fn func(cur float64) float64) {
	if f == nil {
		return
	}
	key := seriesKey(f.labels, values)
	f.mu.Lock()
	f.series[key] = fn(f.series[key])
	f.mu.Unlock()
}

func (f *family) get(values []string) float64 {
	if f == nil {
		return 0
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.series[seriesKey(f.labels, values)]
}

func (f *family) WritePrometheus(w io.Writer) error {
	if f == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	header(bw, f.name, f.help, f.kind)
	f.mu.RLock()
	for _, key := range sortedKeys(f.series) {
		sample(bw, f.name, key, f.series[key])
	}
	f.mu.RUnlock()
	return bw.Flush()
}

// CounterVec is a monotonically increasing family keyed by labels.
type CounterVec struct{ *family }

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{newFamily(name, help, "counter", labels)}
}

func (c *CounterVec) Inc(values ...string) { c.Add(1, values...) }

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil || v < 0 {
		return
	}
	c.update(values, func(cur float64) float64 { return cur + v })
}

func (c *CounterVec) Value(values ...string) float64 {
	if c == nil {
		return 0
	}
	return c.get(values)
}

type Counter struct{ vec *CounterVec }

func NewCounter(name, help string) *Counter {
	return &Counter{vec: NewCounterVec(name, help, nil)}
}

func (c *Counter) Inc()           { c.Add(1) }
func (c *Counter) Add(v float64)  { c.vector().Add(v) }
func (c *Counter) Value() float64 { return c.vector().Value() }

func (c *Counter) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	return c.vec.WritePrometheus(w)
}

func (c *Counter) vector() *CounterVec {
	if c == nil {
		return nil
	}
	return c.vec
}

type GaugeVec struct{ *family }

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{newFamily(name, help, "gauge", labels)}
}

func (g *GaugeVec) Set(v float64, values ...string) {
	if g == nil {
		return
	}
	g.update(values, func(float64) float64 { return v })
}

func (g *GaugeVec) Add(v float64, values ...string) {
	if g == nil {
		return
	}
	g.update(values, func(cur float64) float64 { return cur + v })
}

type Gauge struct{ vec *GaugeVec }

func NewGauge(name, help string) *Gauge {
	return &Gauge{vec: NewGaugeVec(name, help, nil)}
}

func (g *Gauge) Set(v float64) {
	if g != nil {
		g.vec.Set(v)
	}
}

func (g *Gauge) Add(v float64) {
	if g != nil {
		g.vec.Add(v)
	}
}

func (g *Gauge) Inc() { g.Add(1) }
func (g *Gauge) Dec() { g.Add(-1) }

func (g *Gauge) Value() float64 {
	if g == nil {
		return 0
	}
	return g.vec.get(nil)
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	return g.vec.WritePrometheus(w)
}

var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// HistogramVec keeps cumulative bucket counts per label set.
type HistogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.Mutex
	series map[string]*histogram
}

type histogram struct {
	buckets []uint64 // non-cumulative; folded on write
	sum     float64
	count   uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = defaultBuckets
	}
	sorted := append([]float64(nil), buckets...)
	sort.Float64s(sorted)
	return &HistogramVec{name: name, help: help, labels: labels, buckets: sorted, series: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil || math.IsNaN(v) {
		return
	}
	key := seriesKey(h.labels, values)
	idx := sort.SearchFloat64s(h.buckets, v)

	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.series[key]
	if s == nil {
		s = &histogram{buckets: make([]uint64, len(h.buckets))}
		h.series[key] = s
	}
	if idx < len(s.buckets) {
		s.buckets[idx]++
	}
	s.sum += v
	s.count++
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	header(bw, h.name, h.help, "histogram")

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range sortedKeys(h.series) {
		s := h.series[key]
		var cum uint64
		for i, bound := range h.buckets {
			cum += s.buckets[i]
			sample(bw, h.name+"_bucket", withLe(key, strconv.FormatFloat(bound, 'g', -1, 64)), float64(cum))
		}
		sample(bw, h.name+"_bucket", withLe(key, "+Inf"), float64(s.count))
		sample(bw, h.name+"_sum", key, s.sum)
		sample(bw, h.name+"_count", key, float64(s.count))
	}
	return bw.Flush()
}

func header(w *bufio.Writer, name, help, kind string) {
	w.WriteString("# HELP " + name + " " + help + "\n")
	w.WriteString("# TYPE " + name + " " + kind + "\n")
}

func sample(w *bufio.Writer, name, labels string, v float64) {
	w.WriteString(name)
	w.WriteString(labels)
	w.WriteByte(' ')
	w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	w.WriteByte('\n')
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// seriesKey renders values against names as a label set. Missing or blank
// values become "unknown" so every series of a family has the same labels.
func seriesKey(names, values []string) string {
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		val := "unknown"
		if i < len(values) && strings.TrimSpace(values[i]) != "" {
			val = values[i]
		}
		b.WriteString(name + `="` + labelEscaper.Replace(val) + `"`)
	}
	b.WriteByte('}')
	return b.String()
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func withLe(labels, le string) string {
	le = `le="` + labelEscaper.Replace(le) + `"`
	if !strings.HasSuffix(labels, "}") || labels == "{}" {
		return "{" + le + "}"
	}
	return strings.TrimSuffix(labels, "}") + "," + le + "}"
}
