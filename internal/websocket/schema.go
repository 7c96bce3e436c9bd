package websocket

import "encoding/json"

// Event types pushed over the notification stream.
const (
	EventNotification = "notification"
	EventPing         = "ping"
)

// Event is the envelope for every message pushed to a client.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewNotificationEvent wraps a raw notification payload published by the
// fan-out worker.
func NewNotificationEvent(payload []byte) Event {
	return Event{Type: EventNotification, Payload: payload}
}
