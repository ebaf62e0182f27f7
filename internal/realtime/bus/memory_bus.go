package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/collab-backend/internal/realtime"
)

// MemoryBus delivers events in-process. It backs single-instance runs with
// no REDIS_ADDR and the service tests.
type MemoryBus struct {
	mu        sync.RWMutex
	listeners []func(realtime.Event)
	published []realtime.Event
	closed    bool
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{} }

func (b *MemoryBus) Publish(_ context.Context, ev realtime.Event) error {
	if !ev.Valid() {
		return fmt.Errorf("event requires channel and type")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("bus closed")
	}
	b.published = append(b.published, ev)
	listeners := append([]func(realtime.Event){}, b.listeners...)
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(_ context.Context, onEvent func(ev realtime.Event)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, onEvent)
	return nil
}

// Published returns a copy of every event seen so far.
func (b *MemoryBus) Published() []realtime.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]realtime.Event(nil), b.published...)
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = nil
	return nil
}
