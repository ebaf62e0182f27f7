package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/collab-backend/internal/platform/dbctx"
)

func TestInjectedTxRunner(t *testing.T) {
	bodyErr := errors.New("body failed")
	cases := []struct {
		name     string
		runner   *InjectedTxRunner
		body     error
		wantErr  error
		commits  int
		rollback int
		ran      bool
	}{
		{name: "commit", runner: &InjectedTxRunner{}, commits: 1, ran: true},
		{name: "body error", runner: &InjectedTxRunner{}, body: bodyErr, wantErr: bodyErr, rollback: 1, ran: true},
		{name: "begin error", runner: &InjectedTxRunner{FailBegin: errBegin}, wantErr: errBegin},
		{name: "commit error", runner: &InjectedTxRunner{FailCommit: errCommit}, wantErr: errCommit, rollback: 1, ran: true},
		{name: "first attempt", runner: &InjectedTxRunner{FailFirst: errBusy, FailTimes: 1}, wantErr: errBusy, rollback: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			err := tc.runner.InTx(context.Background(), func(_ dbctx.Context) error {
				ran = true
				return tc.body
			})
			if !errors.Is(err, tc.wantErr) || (tc.wantErr == nil && err != nil) {
				t.Fatalf("err: want=%v got=%v", tc.wantErr, err)
			}
			if ran != tc.ran {
				t.Fatalf("body ran=%v want=%v", ran, tc.ran)
			}
			if tc.runner.CommitCalls != tc.commits || tc.runner.RollbackCalls != tc.rollback {
				t.Fatalf("commit=%d rollback=%d", tc.runner.CommitCalls, tc.runner.RollbackCalls)
			}
		})
	}
}

func TestInjectedTxRunner_FailFirstThenCommits(t *testing.T) {
	r := &InjectedTxRunner{FailFirst: errBusy, FailTimes: 2}
	body := func(_ dbctx.Context) error { return nil }
	for i := 0; i < 2; i++ {
		if err := r.InTx(context.Background(), body); !errors.Is(err, errBusy) {
			t.Fatalf("attempt %d: want busy, got %v", i+1, err)
		}
	}
	if err := r.InTx(context.Background(), body); err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if r.Attempts != 3 || r.CommitCalls != 1 || r.RollbackCalls != 2 {
		t.Fatalf("attempts=%d commit=%d rollback=%d", r.Attempts, r.CommitCalls, r.RollbackCalls)
	}
}

var (
	errBegin  = errors.New("begin failed")
	errCommit = errors.New("commit failed")
	errBusy   = errors.New("database is locked")
)
