package server

import "time"

// Event types sent over the WebSocket stream
const (
	// EventConnected greets a client with the currently loaded model
	EventConnected = "connected"

	// EventModelReloaded announces a model swap
	EventModelReloaded = "model_reloaded"

	// EventPong answers a client ping message
	EventPong = "pong"
)

// Event is a WebSocket stream message. Fingerprint and Elements are set
// on model lifecycle events and omitted on pongs.
type Event struct {
	Type        string    `json:"type"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Elements    int       `json:"elements,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func newConnectedEvent(fingerprint string, elements int) *Event {
	return &Event{
		Type:        EventConnected,
		Fingerprint: fingerprint,
		Elements:    elements,
		Timestamp:   time.Now(),
	}
}

func newModelReloadedEvent(fingerprint string, elements int) *Event {
	return &Event{
		Type:        EventModelReloaded,
		Fingerprint: fingerprint,
		Elements:    elements,
		Timestamp:   time.Now(),
	}
}

func newPongEvent() *Event {
	return &Event{
		Type:      EventPong,
		Timestamp: time.Now(),
	}
}
