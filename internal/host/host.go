// Package host drives a goal tracker face from polled hardware samples.
// It plays the part of the watch framework: it debounces buttons, derives the
// 1 Hz tick phase, latches taps between ticks and manages the face lifecycle.
package host

import (
	"time"

	"github.com/sweeney/goal-tracker/internal/gpio"
	"github.com/sweeney/goal-tracker/internal/logic"
)

// maxSubsecond caps the reported tick phase.
const maxSubsecond = 255

// Output is everything the face produced for one sample.
type Output struct {
	Render logic.Render
	Events []logic.Event
	// Left is set when the face asked to be left; it has been resigned and re-activated.
	Left bool
}

// Host feeds one face. Not safe for concurrent use.
type Host struct {
	face      *logic.Face
	debouncer *Debouncer
	poll      time.Duration
	start     time.Time

	lastSecond int64
	latched    logic.TapBits
	render     logic.Render
}

// New creates a host for face. start anchors the tick phase and the tap clock.
func New(face *logic.Face, debounce, poll time.Duration, start time.Time) *Host {
	if poll <= 0 {
		poll = time.Second
	}
	return &Host{
		face:       face,
		debouncer:  NewDebouncer(debounce),
		poll:       poll,
		start:      start,
		lastSecond: -1,
	}
}

// Activate brings the face to the foreground.
func (h *Host) Activate() Output {
	r := h.face.Process(logic.Input{Type: logic.InputActivate})
	h.render = r.Render
	return Output{Render: r.Render, Events: r.Events}
}

// Step processes one polled sample taken at now.
func (h *Host) Step(s gpio.Sample, now time.Time) Output {
	var out Output

	h.latched.Single = h.latched.Single || s.TapSingle
	h.latched.Double = h.latched.Double || s.TapDouble

	edges := h.debouncer.Process([numLines]bool{s.A, s.B, s.Mode}, now)
	for _, e := range edges {
		var in logic.Input
		switch e.Line {
		case LineA, LineB:
			in.Type = logic.InputButtonUp
			if e.Pressed {
				in.Type = logic.InputButtonDown
			}
			in.Control = logic.ControlA
			if e.Line == LineB {
				in.Control = logic.ControlB
			}
		case LineMode:
			// The mode button acts on release.
			if e.Pressed {
				continue
			}
			in.Type = logic.InputModeExit
		}
		h.apply(in, &out)
	}

	h.apply(h.tickInput(now), &out)
	out.Render = h.render
	return out
}

// tickInput builds the tick for now. The first sample of each new second is
// phase 0, so a late poll never skips the 1 Hz logic.
func (h *Host) tickInput(now time.Time) logic.Input {
	elapsed := now.Sub(h.start)
	if elapsed < 0 {
		elapsed = 0
	}
	second := int64(elapsed / time.Second)

	in := logic.Input{Type: logic.InputTick}
	if second != h.lastSecond {
		h.lastSecond = second
		in.Taps = h.latched
		in.NowMs = uint32(elapsed.Milliseconds())
		h.latched = logic.TapBits{}
		return in
	}

	phase := int64(elapsed%time.Second) / int64(h.poll)
	if phase < 1 {
		phase = 1
	}
	if phase > maxSubsecond {
		phase = maxSubsecond
	}
	in.Subsecond = uint8(phase)
	return in
}

func (h *Host) apply(in logic.Input, out *Output) {
	r := h.face.Process(in)
	out.Events = append(out.Events, r.Events...)
	h.render = r.Render

	if r.Leave {
		// Single-face host: resign, then come straight back.
		h.face.Resign()
		out.Left = true
		a := h.face.Process(logic.Input{Type: logic.InputActivate})
		out.Events = append(out.Events, a.Events...)
		h.render = a.Render
	}
}

// Resign flushes the face state to storage.
func (h *Host) Resign() {
	h.face.Resign()
}

// Face returns the hosted face.
func (h *Host) Face() *logic.Face {
	return h.face
}

// IsReady reports whether button levels have been baselined.
func (h *Host) IsReady() bool {
	return h.debouncer.IsBaselined()
}
