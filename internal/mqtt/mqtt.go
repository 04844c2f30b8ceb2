// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// Topic is the MQTT topic for face events.
const Topic = "wearable/goal-tracker/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "wearable/goal-tracker/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a face event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event, at time.Time) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Face FacePayload `json:"face"`
}

// FacePayload contains the face event details.
type FacePayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode"`
	Control   string `json:"control,omitempty"`
	Value     *int   `json:"value,omitempty"`
	Gesture   string `json:"gesture,omitempty"`
}

// FormatPayload creates the JSON payload for a face event.
// Control and value are only present for tally and goal changes.
func FormatPayload(event logic.Event, at time.Time) ([]byte, error) {
	p := FacePayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Mode:      event.Mode.String(),
	}
	switch event.Type {
	case logic.EventIncrement, logic.EventReset, logic.EventGoal:
		v := int(event.Value)
		p.Control = event.Control.String()
		p.Value = &v
	case logic.EventGesture:
		p.Gesture = event.Gesture.String()
	}
	return json.Marshal(Payload{Face: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
