package aggregates

import (
	"strings"
	"time"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

// Hooks receives one ObserveOperation per aggregate write plus a signal for
// every lost compare-and-set and every re-run of a retryable failure.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

type hookChain []Hooks

// ChainHooks fans every signal out to each non-nil hook in order.
func ChainHooks(hooks ...Hooks) Hooks {
	out := make(hookChain, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			out = append(out, h)
		}
	}
	switch len(out) {
	case 0:
		return noopHooks{}
	case 1:
		return out[0]
	}
	return out
}

func (c hookChain) ObserveOperation(name, status string, dur time.Duration) {
	for _, h := range c {
		h.ObserveOperation(name, status, dur)
	}
}

func (c hookChain) IncConflict(name string) {
	for _, h := range c {
		h.IncConflict(name)
	}
}

func (c hookChain) IncRetry(name string) {
	for _, h := range c {
		h.IncRetry(name)
	}
}

type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports aggregate writes to the prometheus collectors.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(strings.TrimSpace(name))
}

type loggingHooks struct {
	log *logger.Logger
}

// NewLoggingHooks logs slow writes, lost races and retries. Successful fast
// writes stay silent.
func NewLoggingHooks(log *logger.Logger) Hooks {
	if log == nil {
		return noopHooks{}
	}
	return loggingHooks{log: log.With("component", "AggregateHooks")}
}

const slowWriteThreshold = 500 * time.Millisecond

func (h loggingHooks) ObserveOperation(name, status string, dur time.Duration) {
	switch {
	case status == string(domainagg.CodePersistenceFailure), status == string(domainagg.CodeInternal), status == "failure":
		h.log.Error("aggregate write failed", "op", name, "status", status, "duration", dur)
	case dur >= slowWriteThreshold:
		h.log.Warn("slow aggregate write", "op", name, "status", status, "duration", dur)
	}
}

func (h loggingHooks) IncConflict(name string) {
	h.log.Warn("aggregate compare-and-set lost", "op", name)
}

func (h loggingHooks) IncRetry(name string) {
	h.log.Warn("retrying aggregate write", "op", name)
}
