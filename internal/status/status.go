// Package status provides a thread-safe status tracker for the goal-tracker daemon.
// It is read by the HTTP handlers and by the MQTT heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/config from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	Store       string
	Display     string
}

// Counts tallies the face events seen since startup.
type Counts struct {
	Increments int
	Resets     int
	Gestures   int
	Modes      int
	Goals      int
	Leaves     int
}

// Add counts each event by type.
func (c *Counts) Add(events []logic.Event) {
	for _, e := range events {
		switch e.Type {
		case logic.EventIncrement:
			c.Increments++
		case logic.EventReset:
			c.Resets++
		case logic.EventGesture:
			c.Gestures++
		case logic.EventMode:
			c.Modes++
		case logic.EventGoal:
			c.Goals++
		case logic.EventLeave:
			c.Leaves++
		}
	}
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Face          logic.FaceState
	Render        logic.Render
	Ready         bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update sets the face state, the current render and input readiness.
// Called from runLoop on every tick.
func (t *Tracker) Update(face logic.FaceState, render logic.Render, ready bool) {
	t.mu.Lock()
	t.snap.Face = face
	t.snap.Render = render
	t.snap.Ready = ready
	t.mu.Unlock()
}

// Record adds events to the running counts.
func (t *Tracker) Record(events []logic.Event) {
	if len(events) == 0 {
		return
	}
	t.mu.Lock()
	t.snap.Counts.Add(events)
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
