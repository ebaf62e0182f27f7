package aggregates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yungbote/collab-backend/internal/data/repos/testutil"
)

func TestChainHooksFansOut(t *testing.T) {
	a, b := &spyHooks{}, &spyHooks{}
	h := ChainHooks(a, nil, b)

	h.ObserveOperation("Collab.Fund", "success", time.Millisecond)
	h.IncConflict("Collab.Fund")
	h.IncRetry("Collab.Fund")

	for _, spy := range []*spyHooks{a, b} {
		assert.Len(t, spy.Operations, 1)
		assert.Equal(t, []string{"Collab.Fund"}, spy.Conflicts)
		assert.Equal(t, []string{"Collab.Fund"}, spy.Retries)
	}
}

func TestChainHooksCollapses(t *testing.T) {
	assert.IsType(t, noopHooks{}, ChainHooks())
	assert.IsType(t, noopHooks{}, ChainHooks(nil, nil))

	only := &spyHooks{}
	assert.Same(t, only, ChainHooks(nil, only))
}

func TestLoggingHooks(t *testing.T) {
	assert.IsType(t, noopHooks{}, NewLoggingHooks(nil))
	assert.IsType(t, noopHooks{}, NewObservabilityHooks(nil))

	h := NewLoggingHooks(testutil.Logger(t))
	assert.NotPanics(t, func() {
		h.ObserveOperation("Collab.Invite", "success", time.Millisecond)
		h.ObserveOperation("Collab.Invite", "persistence_failure", time.Millisecond)
		h.ObserveOperation("Collab.Invite", "success", time.Second)
		h.IncConflict("Collab.Invite")
		h.IncRetry("Collab.Invite")
	})
}
