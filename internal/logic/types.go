// Package logic contains the pure interaction core of the goal tracker face.
// This package has NO external dependencies (no GPIO, MQTT, storage, OS, or time.Sleep).
// Time is always injectable: taps carry a millisecond clock and the calendar is a collaborator.
package logic

import "time"

// Control identifies a physical button bound to a counter.
type Control uint8

const (
	ControlA Control = iota
	ControlB
)

func (c Control) String() string {
	if c == ControlB {
		return "B"
	}
	return "A"
}

// Action is a discrete result of a long hold.
type Action uint8

const (
	ActionNone Action = iota
	ActionIncrement
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionIncrement:
		return "INCREMENT"
	case ActionReset:
		return "RESET"
	default:
		return "NONE"
	}
}

// Gesture is a classified tap gesture.
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureSingle
	GestureDouble
	GestureTriple
)

func (g Gesture) String() string {
	switch g {
	case GestureSingle:
		return "SINGLE"
	case GestureDouble:
		return "DOUBLE"
	case GestureTriple:
		return "TRIPLE"
	default:
		return "NONE"
	}
}

// Mode is the display mode of the face.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeShowGet
	ModeSetA
	ModeSetB
)

func (m Mode) String() string {
	switch m {
	case ModeShowGet:
		return "SHOW_GET"
	case ModeSetA:
		return "SET_A"
	case ModeSetB:
		return "SET_B"
	default:
		return "NORMAL"
	}
}

// Counter is a tally toward a goal. 0 <= Value <= Max.
type Counter struct {
	Value uint16
	Max   uint16
}

// Goal is a monthly target. Min <= Value <= Max.
type Goal struct {
	Value uint16
	Min   uint16
	Max   uint16
}

// TapBits are the raw tap-source bits latched by the accelerometer since the last tick.
type TapBits struct {
	Single bool
	Double bool
}

// Date is a calendar position as reported by the calendar collaborator.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Calendar reports today's date. ok is false when the date is unavailable.
type Calendar interface {
	Today() (d Date, ok bool)
}

// CalendarFunc adapts a function to the Calendar interface.
type CalendarFunc func() (Date, bool)

// Today calls f.
func (f CalendarFunc) Today() (Date, bool) {
	return f()
}

// Slot identifies one persisted value.
type Slot uint8

const (
	SlotTallyA Slot = iota
	SlotTallyB
	SlotGoalA
	SlotGoalB

	NumSlots = 4
)

func (s Slot) String() string {
	switch s {
	case SlotTallyA:
		return "tally_a"
	case SlotTallyB:
		return "tally_b"
	case SlotGoalA:
		return "goal_a"
	case SlotGoalB:
		return "goal_b"
	default:
		return "unknown"
	}
}

// Slots is durable storage for the four face values.
// Implementations are assumed infallible at this layer; an unreadable or
// uninitialized slot reads back as an out-of-range value such as 0xFFFF.
type Slots interface {
	Read(slot Slot) uint16
	Write(slot Slot, value uint16)
}

// InputType is the kind of event delivered by the host.
type InputType uint8

const (
	InputActivate InputType = iota
	InputTick
	InputButtonDown
	InputButtonUp
	InputGoalUp
	InputGoalDown
	InputModeExit
)

// Input is a single event delivered by the host.
type Input struct {
	Type InputType
	// Control is set for button events.
	Control Control
	// Subsecond is the tick phase; only phase 0 runs the 1 Hz logic.
	Subsecond uint8
	// Taps and NowMs are read on phase 0 ticks.
	Taps  TapBits
	NowMs uint32
}

// Render is the instruction handed to the display collaborator.
type Render struct {
	Top  string
	Main string
	// ShowTime replaces Main with the live formatted time.
	ShowTime bool
}

// EventType is the kind of face event reported to the host.
type EventType string

const (
	EventIncrement EventType = "INCREMENT"
	EventReset     EventType = "RESET"
	EventGesture   EventType = "GESTURE"
	EventMode      EventType = "MODE"
	EventGoal      EventType = "GOAL"
	EventLeave     EventType = "LEAVE"
)

// Event is a user-visible change to be published.
type Event struct {
	Type    EventType
	Control Control
	Value   uint16
	Gesture Gesture
	Mode    Mode
}

// Result is the outcome of processing one input.
type Result struct {
	Render Render
	Events []Event
	// Leave asks the host to move away from this face.
	Leave bool
}
