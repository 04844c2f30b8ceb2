// Package config loads daemon settings from the environment.
// Every field has a default; command-line flags in cmd/goal-tracker override them.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sweeney/goal-tracker/internal/gpio"
	"github.com/sweeney/goal-tracker/internal/logic"
	"github.com/sweeney/goal-tracker/internal/status"
)

// Config is the full daemon configuration.
type Config struct {
	Poll      time.Duration `env:"GOAL_TRACKER_POLL"      envDefault:"125ms"`
	Debounce  time.Duration `env:"GOAL_TRACKER_DEBOUNCE"  envDefault:"50ms"`
	Broker    string        `env:"GOAL_TRACKER_BROKER"    envDefault:"tcp://192.168.1.200:1883"`
	ClientID  string        `env:"GOAL_TRACKER_CLIENT_ID" envDefault:"goal-tracker"`
	Heartbeat time.Duration `env:"GOAL_TRACKER_HEARTBEAT" envDefault:"15m"`
	HTTPAddr  string        `env:"GOAL_TRACKER_HTTP"      envDefault:":80"`
	Display   string        `env:"GOAL_TRACKER_DISPLAY"   envDefault:"log"`

	Store     string `env:"GOAL_TRACKER_STORE"      envDefault:"sqlite"`
	StorePath string `env:"GOAL_TRACKER_STORE_PATH" envDefault:"/var/lib/goal-tracker/slots.db"`

	Chip         string `env:"GOAL_TRACKER_GPIO_CHIP"      envDefault:"gpiochip0"`
	PinA         int    `env:"GOAL_TRACKER_PIN_A"          envDefault:"17"`
	PinB         int    `env:"GOAL_TRACKER_PIN_B"          envDefault:"27"`
	PinMode      int    `env:"GOAL_TRACKER_PIN_MODE"       envDefault:"22"`
	PinTapSingle int    `env:"GOAL_TRACKER_PIN_TAP_SINGLE" envDefault:"23"`
	PinTapDouble int    `env:"GOAL_TRACKER_PIN_TAP_DOUBLE" envDefault:"24"`

	Face Face

	// NetworkFile is watched for pi-helper updates; Network holds the
	// values present in the process environment at startup.
	NetworkFile string `env:"GOAL_TRACKER_NETWORK_FILE" envDefault:"/run/pi-helper.env"`
	Network     Network
}

// Face holds the face thresholds.
type Face struct {
	IncrementHold uint8         `env:"GOAL_TRACKER_INCREMENT_HOLD" envDefault:"2"`
	ResetHold     uint8         `env:"GOAL_TRACKER_RESET_HOLD"     envDefault:"5"`
	TripleWindow  time.Duration `env:"GOAL_TRACKER_TRIPLE_WINDOW"  envDefault:"1500ms"`
	TapDebounce   time.Duration `env:"GOAL_TRACKER_TAP_DEBOUNCE"   envDefault:"300ms"`
	GetShow       uint8         `env:"GOAL_TRACKER_GET_SHOW"       envDefault:"5"`
	TallyMax      uint16        `env:"GOAL_TRACKER_TALLY_MAX"      envDefault:"999"`
	GoalMin       uint16        `env:"GOAL_TRACKER_GOAL_MIN"       envDefault:"1"`
	GoalMax       uint16        `env:"GOAL_TRACKER_GOAL_MAX"       envDefault:"999"`
	GoalDefault   uint16        `env:"GOAL_TRACKER_GOAL_DEFAULT"   envDefault:"30"`
}

// Network is the state written by pi-helper to /run/pi-helper.env.
type Network struct {
	Type       string `env:"NETWORK_TYPE"`
	IP         string `env:"NETWORK_IP"`
	Status     string `env:"NETWORK_STATUS"`
	Gateway    string `env:"NETWORK_GATEWAY"`
	WifiStatus string `env:"NETWORK_WIFI_STATUS"`
	SSID       string `env:"NETWORK_WIFI_SSID"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Info converts n for the status tracker. Returns nil when Status is empty.
func (n Network) Info() *status.NetworkInfo {
	if n.Status == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       n.Type,
		IP:         n.IP,
		Status:     n.Status,
		Gateway:    n.Gateway,
		WifiStatus: n.WifiStatus,
		SSID:       n.SSID,
	}
}

// Pins returns the GPIO wiring.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{
		A:         c.PinA,
		B:         c.PinB,
		Mode:      c.PinMode,
		TapSingle: c.PinTapSingle,
		TapDouble: c.PinTapDouble,
	}
}

// Logic returns the face configuration, validated.
func (f Face) Logic() (logic.Config, error) {
	lc := logic.Config{
		IncrementHoldSeconds: f.IncrementHold,
		ResetHoldSeconds:     f.ResetHold,
		TripleWindowMs:       uint32(f.TripleWindow.Milliseconds()),
		DebounceMs:           uint32(f.TapDebounce.Milliseconds()),
		GetShowSeconds:       f.GetShow,
		TallyMax:             [2]uint16{f.TallyMax, f.TallyMax},
		GoalMin:              f.GoalMin,
		GoalMax:              f.GoalMax,
		GoalDefault:          f.GoalDefault,
	}
	if err := lc.Validate(); err != nil {
		return logic.Config{}, fmt.Errorf("face config: %w", err)
	}
	return lc, nil
}

// Status returns the subset of settings shown on the status page.
func (c Config) Status() status.Config {
	return status.Config{
		PollMs:      c.Poll.Milliseconds(),
		DebounceMs:  c.Debounce.Milliseconds(),
		HeartbeatMs: c.Heartbeat.Milliseconds(),
		Broker:      c.Broker,
		HTTPAddr:    c.HTTPAddr,
		Store:       c.Store,
		Display:     c.Display,
	}
}
