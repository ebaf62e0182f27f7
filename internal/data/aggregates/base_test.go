package aggregates

import (
	"context"
	"testing"
	"time"

	domainagg "github.com/yungbote/collab-backend/internal/domain/aggregates"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

func TestExecuteWriteObservesSuccessStatus(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{
		Runner: spyTxRunner{},
		Hooks:  hooks,
	}, "Collab.Test.success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite success: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != "success" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
}

func TestExecuteWriteDoesNotRetryDomainFailures(t *testing.T) {
	cases := map[string]struct {
		err  error
		code domainagg.ErrorCode
	}{
		"invariant": {InvariantError("offer already accepted"), domainagg.CodeInvariantViolation},
		"conflict":  {ConflictError("stale candidate status"), domainagg.CodeConflict},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			hooks := &spyHooks{}
			calls := 0
			err := executeWrite(context.Background(), BaseDeps{
				Runner: spyTxRunner{},
				Hooks:  hooks,
				Retry:  fastRetry,
			}, "Collab.Test."+name, func(_ dbctx.Context) error {
				calls++
				return tc.err
			})
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want code %s got=%v", tc.code, err)
			}
			if calls != 1 || len(hooks.Retries) != 0 {
				t.Fatalf("want one attempt and no retries, got calls=%d retries=%v", calls, hooks.Retries)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(tc.code) {
				t.Fatalf("unexpected op status: %+v", hooks.Operations)
			}
			wantConflicts := 0
			if tc.code == domainagg.CodeConflict {
				wantConflicts = 1
			}
			if len(hooks.Conflicts) != wantConflicts {
				t.Fatalf("conflicts: want=%d got=%v", wantConflicts, hooks.Conflicts)
			}
		})
	}
}

func TestExecuteWriteRetriesRetryableFailures(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		hooks := &spyHooks{}
		calls := 0
		err := executeWrite(context.Background(), BaseDeps{
			Runner: spyTxRunner{},
			Hooks:  hooks,
			Retry:  fastRetry,
		}, "Collab.Test.busy", func(_ dbctx.Context) error {
			calls++
			if calls == 1 {
				return RetryableError("database is locked")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("want success after retry, got %v", err)
		}
		if calls != 2 || len(hooks.Retries) != 1 {
			t.Fatalf("want calls=2 retries=1 got calls=%d retries=%d", calls, len(hooks.Retries))
		}
		if hooks.Operations[0].Status != "success" {
			t.Fatalf("status: want=success got=%s", hooks.Operations[0].Status)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		hooks := &spyHooks{}
		calls := 0
		err := executeWrite(context.Background(), BaseDeps{
			Runner: spyTxRunner{},
			Hooks:  hooks,
			Retry:  fastRetry,
		}, "Collab.Test.retry", func(_ dbctx.Context) error {
			calls++
			return RetryableError("deadlock detected")
		})
		if !domainagg.IsCode(err, domainagg.CodeRetryable) {
			t.Fatalf("expected retryable code, got=%v", err)
		}
		if calls != fastRetry.MaxAttempts || len(hooks.Retries) != fastRetry.MaxAttempts-1 {
			t.Fatalf("want calls=%d retries=%d got calls=%d retries=%d", fastRetry.MaxAttempts, fastRetry.MaxAttempts-1, calls, len(hooks.Retries))
		}
		if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(domainagg.CodeRetryable) {
			t.Fatalf("unexpected op status: %+v", hooks.Operations)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := executeWrite(ctx, BaseDeps{
			Runner: spyTxRunner{},
			Hooks:  &spyHooks{},
			Retry:  fastRetry,
		}, "Collab.Test.cancel", func(_ dbctx.Context) error {
			calls++
			cancel()
			return RetryableError("database is locked")
		})
		if err == nil || calls != 1 {
			t.Fatalf("want a single attempt after cancel, got calls=%d err=%v", calls, err)
		}
	})
}

// Status labels feed the aggregate metrics and must stay stable.
func TestAggregateErrorStatus(t *testing.T) {
	if got := aggregateErrorStatus(nil); got != "success" {
		t.Fatalf("nil status: want=success got=%s", got)
	}
	if got := aggregateErrorStatus(InvariantError("x")); got != string(domainagg.CodeInvariantViolation) {
		t.Fatalf("invariant status: got=%s", got)
	}
	if got := aggregateErrorStatus(ConflictError("x")); got != string(domainagg.CodeConflict) {
		t.Fatalf("conflict status: got=%s", got)
	}
	if got := aggregateErrorStatus(context.DeadlineExceeded); got != string(domainagg.CodeRetryable) {
		t.Fatalf("deadline status: got=%s", got)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) {
	h.Conflicts = append(h.Conflicts, name)
}

func (h *spyHooks) IncRetry(name string) {
	h.Retries = append(h.Retries, name)
}
