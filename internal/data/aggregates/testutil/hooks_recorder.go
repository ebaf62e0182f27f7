package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/collab-backend/internal/data/aggregates"
)

// HooksRecorder keeps every aggregate hook signal for assertions.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Conflicts  []string
	Retries    []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
	h.mu.Unlock()
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	h.Conflicts = append(h.Conflicts, name)
	h.mu.Unlock()
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	h.Retries = append(h.Retries, name)
	h.mu.Unlock()
}

// Statuses returns the outcome of each recorded write of op, oldest first.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, ev := range h.Operations {
		if ev.Name == op {
			out = append(out, ev.Status)
		}
	}
	return out
}

func (h *HooksRecorder) RetryCount(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return count(h.Retries, op)
}

func (h *HooksRecorder) ConflictCount(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return count(h.Conflicts, op)
}

func (h *HooksRecorder) Reset() {
	h.mu.Lock()
	h.Operations, h.Conflicts, h.Retries = nil, nil, nil
	h.mu.Unlock()
}

func count(names []string, op string) int {
	n := 0
	for _, name := range names {
		if name == op {
			n++
		}
	}
	return n
}
