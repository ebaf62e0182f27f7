package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

// InjectedTxRunner runs aggregate bodies without a real transaction and lets
// a test fail chosen phases. The body receives a context with a nil Tx, so
// repositories fall back to their own handle.
type InjectedTxRunner struct {
	mu sync.Mutex

	// FailBegin is returned before the body runs, with no rollback.
	FailBegin error
	// FailCommit is returned after a successful body, as a rollback.
	FailCommit error
	// FailFirst fails the first FailTimes attempts as a rollback before the
	// body runs. Used to exercise the retry loop.
	FailFirst error
	FailTimes int

	Attempts      int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.Attempts++
	attempt := r.Attempts
	failBegin, failCommit := r.FailBegin, r.FailCommit
	injected := r.FailFirst != nil && attempt <= r.FailTimes
	failFirst := r.FailFirst
	r.mu.Unlock()

	switch {
	case failBegin != nil:
		return failBegin
	case injected:
		r.rollback()
		return failFirst
	}
	if fn != nil {
		if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
			r.rollback()
			return err
		}
	}
	if failCommit != nil {
		r.rollback()
		return failCommit
	}
	r.mu.Lock()
	r.CommitCalls++
	r.mu.Unlock()
	return nil
}

func (r *InjectedTxRunner) rollback() {
	r.mu.Lock()
	r.RollbackCalls++
	r.mu.Unlock()
}
