package status

import (
	"encoding/json"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Face          FaceJSON     `json:"face"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// FaceJSON is the JSON representation of the face state.
type FaceJSON struct {
	Mode    string      `json:"mode"`
	Display DisplayJSON `json:"display"`
	A       ControlJSON `json:"a"`
	B       ControlJSON `json:"b"`
}

// DisplayJSON mirrors what is on the display.
type DisplayJSON struct {
	Top      string `json:"top"`
	Main     string `json:"main,omitempty"`
	ShowTime bool   `json:"show_time"`
}

// ControlJSON describes one tally and its goal.
type ControlJSON struct {
	Tally   uint16  `json:"tally"`
	Max     uint16  `json:"max"`
	Goal    uint16  `json:"goal"`
	Deficit float64 `json:"deficit"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Increments int `json:"increment"`
	Resets     int `json:"reset"`
	Gestures   int `json:"gesture"`
	Modes      int `json:"mode"`
	Goals      int `json:"goal"`
	Leaves     int `json:"leave"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	Store       string `json:"store"`
	Display     string `json:"display"`
}

// round2 keeps deficits at the precision the face shows.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func buildInner(snap Snapshot) StatusInner {
	f := snap.Face
	control := func(i int) ControlJSON {
		return ControlJSON{
			Tally:   f.Tallies[i].Value,
			Max:     f.Tallies[i].Max,
			Goal:    f.Goals[i].Value,
			Deficit: round2(f.Deficits[i]),
		}
	}

	return StatusInner{
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Face: FaceJSON{
			Mode: f.Mode.String(),
			Display: DisplayJSON{
				Top:      snap.Render.Top,
				Main:     snap.Render.Main,
				ShowTime: snap.Render.ShowTime,
			},
			A: control(0),
			B: control(1),
		},
		MQTT: MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Increments: snap.Counts.Increments,
			Resets:     snap.Counts.Resets,
			Gestures:   snap.Counts.Gestures,
			Modes:      snap.Counts.Modes,
			Goals:      snap.Counts.Goals,
			Leaves:     snap.Counts.Leaves,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			Store:       snap.Config.Store,
			Display:     snap.Config.Display,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
