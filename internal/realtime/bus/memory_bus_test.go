package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/collab-backend/internal/realtime"
)

func TestMemoryBusForwardsToListeners(t *testing.T) {
	b := NewMemoryBus()
	var got []realtime.Event
	if err := b.StartForwarder(context.Background(), func(ev realtime.Event) { got = append(got, ev) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	ev := realtime.Event{Channel: realtime.UserChannel(uuid.New()), Type: realtime.EventNotificationCreated}
	if err := b.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 || got[0].Type != realtime.EventNotificationCreated {
		t.Fatalf("listener events: %+v", got)
	}
	if n := len(b.Published()); n != 1 {
		t.Fatalf("published: want=1 got=%d", n)
	}
}

func TestMemoryBusRejectsInvalidAndClosed(t *testing.T) {
	b := NewMemoryBus()
	if err := b.Publish(context.Background(), realtime.Event{Type: realtime.EventChannelMessage}); err == nil {
		t.Fatalf("expected error for event without channel")
	}
	_ = b.Close()
	ev := realtime.Event{Channel: "user:x", Type: realtime.EventChannelMessage}
	if err := b.Publish(context.Background(), ev); err == nil {
		t.Fatalf("expected error after close")
	}
}
