package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestHooksRecorder_FiltersByOperation(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Collab.Invite", "success", time.Millisecond)
	h.ObserveOperation("Collab.Fund", "retryable", time.Millisecond)
	h.ObserveOperation("Collab.Invite", "already_exists", time.Millisecond)
	h.IncRetry("Collab.Fund")
	h.IncRetry("Collab.Fund")
	h.IncConflict("Collab.Approve")

	got := h.Statuses("Collab.Invite")
	if len(got) != 2 || got[0] != "success" || got[1] != "already_exists" {
		t.Fatalf("unexpected invite statuses: %v", got)
	}
	if n := h.RetryCount("Collab.Fund"); n != 2 {
		t.Fatalf("fund retries: want=2 got=%d", n)
	}
	if n := h.ConflictCount("Collab.Fund"); n != 0 {
		t.Fatalf("fund conflicts: want=0 got=%d", n)
	}
	if n := h.ConflictCount("Collab.Approve"); n != 1 {
		t.Fatalf("approve conflicts: want=1 got=%d", n)
	}

	h.Reset()
	if len(h.Operations)+len(h.Retries)+len(h.Conflicts) != 0 {
		t.Fatalf("reset left signals behind: %+v", h)
	}
}

func TestHooksRecorder_ConcurrentWriters(t *testing.T) {
	h := &HooksRecorder{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.IncConflict("Collab.Finalize")
			h.ObserveOperation("Collab.Finalize", "conflict", 0)
		}()
	}
	wg.Wait()
	if n := h.ConflictCount("Collab.Finalize"); n != 16 {
		t.Fatalf("want 16 conflicts, got %d", n)
	}
	if n := len(h.Statuses("Collab.Finalize")); n != 16 {
		t.Fatalf("want 16 operations, got %d", n)
	}
}
