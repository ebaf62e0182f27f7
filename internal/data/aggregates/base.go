package aggregates

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/observability"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
	"github.com/yungbote/collab-backend/internal/platform/logger"
)

// TxRunner is the transaction boundary every aggregate write runs inside.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// RetryPolicy bounds how often a write is re-run after a retryable store
// failure (deadlock, serialization failure, SQLITE_BUSY). Conflicts from a
// lost compare-and-set are never retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond}
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.BaseDelay
}

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Retry    RetryPolicy
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Retry.MaxAttempts <= 0 {
		d.Retry = DefaultRetryPolicy()
	}
	return d
}

// executeWrite runs fn in a fresh transaction, re-running it on retryable
// failures, and reports the final outcome to the hooks exactly once.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	ctx, span := observability.StartSpan(ctx, "aggregate.write", attribute.String("aggregate.op", op))

	var (
		mapped   error
		attempts int
	)
	for attempts = 1; ; attempts++ {
		mapped = MapError(op, deps.Runner.InTx(ctx, fn))
		if !shouldRetry(ctx, mapped, attempts, deps.Retry) {
			break
		}
		deps.Hooks.IncRetry(op)
		if !sleepCtx(ctx, deps.Retry.delay(attempts)) {
			break
		}
	}
	span.SetAttributes(attribute.Int("aggregate.attempts", attempts))
	observability.EndSpan(span, mapped)

	status := aggregateErrorStatus(mapped)
	if domainagg.IsCode(mapped, domainagg.CodeConflict) {
		deps.Hooks.IncConflict(op)
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func shouldRetry(ctx context.Context, err error, attempt int, policy RetryPolicy) bool {
	if err == nil || attempt >= policy.MaxAttempts || ctx.Err() != nil {
		return false
	}
	return domainagg.IsCode(err, domainagg.CodeRetryable)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
