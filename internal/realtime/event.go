package realtime

import (
	"strings"

	"github.com/google/uuid"
)

type EventType string

const (
	EventNotificationCreated EventType = "notification.created"
	EventChannelCreated      EventType = "channel.created"
	EventChannelMessage      EventType = "channel.message"
)

// Event is what the bus carries. Channel is the user id the event is
// addressed to; the transport that fans it out to sockets lives elsewhere.
type Event struct {
	Channel string         `json:"channel"`
	Type    EventType      `json:"event"`
	Data    map[string]any `json:"data,omitempty"`
}

func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func (e Event) Valid() bool {
	return strings.TrimSpace(e.Channel) != "" && strings.TrimSpace(string(e.Type)) != ""
}
