package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/collab-backend/internal/platform/logger"
)

type MetricsConfig struct {
	Enabled bool
	// ScrapeInterval drives the postgres and redis collectors.
	ScrapeInterval time.Duration
	// LatencyThreshold counts API requests at or under it as "good".
	LatencyThreshold time.Duration
}

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter
	apiReqGood  *Counter

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	transitions       *CounterVec
	sideEffects       *CounterVec
	sideEffectLatency *HistogramVec
	eventsPublished   *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	latencyThreshold float64
	scrapeInterval   time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when metrics
// are disabled; every method is nil-safe.
func Init(log *logger.Logger, cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New(cfg)
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// New builds an unshared registry.
func New(cfg MetricsConfig) *Metrics {
	threshold := cfg.LatencyThreshold
	if threshold <= 0 {
		threshold = 500 * time.Millisecond
	}
	interval := cfg.ScrapeInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Metrics{
		apiRequests: NewCounterVec("collab_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"collab_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("collab_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("collab_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("collab_api_requests_error_total", "Total API requests with 5xx status."),
		apiReqGood:  NewCounter("collab_api_requests_good_latency_total", "Total API requests under the latency threshold."),

		aggregateOps: NewCounterVec("collab_aggregate_operations_total", "Aggregate writes by operation/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"collab_aggregate_operation_duration_seconds",
			"Aggregate write latency including the transaction.",
			[]string{"operation"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		),
		aggregateConflicts: NewCounterVec("collab_aggregate_conflicts_total", "Aggregate writes that lost a concurrency race.", []string{"operation"}),
		aggregateRetries:   NewCounterVec("collab_aggregate_retryable_total", "Aggregate writes that failed with a retryable store error.", []string{"operation"}),

		transitions: NewCounterVec("collab_lifecycle_transitions_total", "Candidate status transitions by from/to.", []string{"from", "to"}),
		sideEffects: NewCounterVec("collab_side_effects_total", "Post-commit side effects by effect/status.", []string{"effect", "status"}),
		sideEffectLatency: NewHistogramVec(
			"collab_side_effect_duration_seconds",
			"Post-commit side effect latency.",
			[]string{"effect"},
			[]float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		eventsPublished: NewCounterVec("collab_realtime_events_total", "Realtime events by type/status.", []string{"event", "status"}),

		pgStats:   NewGaugeVec("collab_db_stats", "Database connection pool stats.", []string{"metric"}),
		redisUp:   NewGauge("collab_redis_up", "Redis connectivity (1=up, 0=down)."),
		redisPing: NewGauge("collab_redis_ping_seconds", "Redis ping latency in seconds."),

		latencyThreshold: threshold.Seconds(),
		scrapeInterval:   interval,
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError, m.apiReqGood,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.transitions, m.sideEffects, m.sideEffectLatency, m.eventsPublished,
		m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
	if m.latencyThreshold > 0 && dur.Seconds() <= m.latencyThreshold {
		m.apiReqGood.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aggregateOps.Inc(operation, status)
	m.aggregateLatency.Observe(dur.Seconds(), operation)
}

func (m *Metrics) IncAggregateConflict(operation string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(operation)
}

func (m *Metrics) IncAggregateRetry(operation string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(operation)
}

func (m *Metrics) IncTransition(from, to string) {
	if m == nil || from == to {
		return
	}
	m.transitions.Inc(from, to)
}

func (m *Metrics) TransitionCount(from, to string) float64 {
	if m == nil {
		return 0
	}
	return m.transitions.Value(from, to)
}

func (m *Metrics) ObserveSideEffect(effect string, err error, dur time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.sideEffects.Inc(effect, status)
	m.sideEffectLatency.Observe(dur.Seconds(), effect)
}

func (m *Metrics) SideEffectCount(effect, status string) float64 {
	if m == nil {
		return 0
	}
	return m.sideEffects.Value(effect, status)
}

func (m *Metrics) IncEventPublished(event string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.eventsPublished.Inc(event, status)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
				m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.pgStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings through the bus's client; it does not own it.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	return len(status) >= 3 && status[0] == '5'
}
