package logic

import (
	"testing"
	"time"
)

// memSlots is an in-package Slots double that records every write.
type memSlots struct {
	values [NumSlots]uint16
	writes []Slot
}

func newMemSlots(tallyA, tallyB, goalA, goalB uint16) *memSlots {
	return &memSlots{values: [NumSlots]uint16{tallyA, tallyB, goalA, goalB}}
}

func (m *memSlots) Read(s Slot) uint16 {
	return m.values[s]
}

func (m *memSlots) Write(s Slot, v uint16) {
	m.values[s] = v
	m.writes = append(m.writes, s)
}

func fixedDate(y int, mo time.Month, d int) Calendar {
	return CalendarFunc(func() (Date, bool) { return Date{Year: y, Month: mo, Day: d}, true })
}

// midMonth puts day 15 of a 30-day month: half of each goal is expected.
var midMonth = fixedDate(2026, time.June, 15)

func tick(now uint32) Input {
	return Input{Type: InputTick, NowMs: now}
}

func tapTick(now uint32, bits TapBits) Input {
	return Input{Type: InputTick, NowMs: now, Taps: bits}
}

// holdSeconds presses a control for the given whole seconds and releases it.
func holdSeconds(f *Face, c Control, seconds int, start uint32) []Event {
	var events []Event
	f.Process(Input{Type: InputButtonDown, Control: c})
	for i := 0; i < seconds; i++ {
		r := f.Process(tick(start + uint32(i)*1000))
		events = append(events, r.Events...)
	}
	f.Process(Input{Type: InputButtonUp, Control: c})
	return events
}

// triple feeds three single taps one tick apart.
func triple(f *Face, start uint32) Result {
	f.Process(tapTick(start, single))
	f.Process(tapTick(start+500, single))
	return f.Process(tapTick(start+1000, single))
}

func TestNewFaceLoadsAndValidates(t *testing.T) {
	slots := newMemSlots(0xFFFF, 12, 0xFFFF, 0)
	f := NewFace(DefaultConfig(), slots, midMonth)

	s := f.State()
	if s.Tallies[ControlA].Value != 999 {
		t.Errorf("expected invalid tally A clamped to 999, got %d", s.Tallies[ControlA].Value)
	}
	if s.Tallies[ControlB].Value != 12 {
		t.Errorf("expected tally B 12, got %d", s.Tallies[ControlB].Value)
	}
	if s.Goals[ControlA].Value != 30 {
		t.Errorf("expected invalid goal A replaced by default 30, got %d", s.Goals[ControlA].Value)
	}
	if s.Goals[ControlB].Value != 30 {
		t.Errorf("expected below-min goal B replaced by default 30, got %d", s.Goals[ControlB].Value)
	}
	if s.Mode != ModeNormal {
		t.Errorf("expected NORMAL, got %s", s.Mode)
	}
	if len(slots.writes) != 0 {
		t.Errorf("setup should not write, got %v", slots.writes)
	}
}

func TestHoldTwoSecondsIncrements(t *testing.T) {
	slots := newMemSlots(5, 0, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	events := holdSeconds(f, ControlA, 2, 0)

	if len(events) != 1 || events[0].Type != EventIncrement {
		t.Fatalf("expected one INCREMENT event, got %+v", events)
	}
	if events[0].Value != 6 || events[0].Control != ControlA {
		t.Errorf("unexpected event: %+v", events[0])
	}
	if slots.values[SlotTallyA] != 6 {
		t.Errorf("expected persisted tally A 6, got %d", slots.values[SlotTallyA])
	}
}

func TestHoldFiveSecondsResets(t *testing.T) {
	slots := newMemSlots(0, 40, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	holdSeconds(f, ControlB, 6, 0)

	if got := f.State().Tallies[ControlB].Value; got != 0 {
		t.Errorf("expected tally B 0 after long hold, got %d", got)
	}
	if slots.values[SlotTallyB] != 0 {
		t.Errorf("expected persisted tally B 0, got %d", slots.values[SlotTallyB])
	}
}

func TestIncrementSaturates(t *testing.T) {
	slots := newMemSlots(999, 0, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	holdSeconds(f, ControlA, 2, 0)
	if got := f.State().Tallies[ControlA].Value; got != 999 {
		t.Errorf("expected saturation at 999, got %d", got)
	}
}

func TestButtonDownRestartsHold(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 30, 30), midMonth)

	f.Process(Input{Type: InputButtonDown, Control: ControlA})
	f.Process(tick(0))
	// A second down without an up (missed edge) starts the count again
	f.Process(Input{Type: InputButtonDown, Control: ControlA})
	r := f.Process(tick(1000))
	if len(r.Events) != 0 {
		t.Errorf("expected no action after restarted hold, got %+v", r.Events)
	}
}

func TestUnknownControlIgnored(t *testing.T) {
	slots := newMemSlots(5, 5, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	events := holdSeconds(f, Control(2), 6, 0)
	if len(events) != 0 {
		t.Errorf("expected no events for an unknown control, got %+v", events)
	}
	s := f.State()
	if s.Tallies[ControlA].Value != 5 || s.Tallies[ControlB].Value != 5 {
		t.Errorf("expected tallies untouched, got %d/%d", s.Tallies[ControlA].Value, s.Tallies[ControlB].Value)
	}

	triple(f, 10000)
	r := f.Process(Input{Type: InputButtonDown, Control: Control(7)})
	if len(r.Events) != 0 || f.State().Goals[ControlA].Value != 30 {
		t.Errorf("expected unknown control to leave goal A alone in SET_A, got %+v", r.Events)
	}
	if len(slots.writes) != 0 {
		t.Errorf("expected no writes, got %v", slots.writes)
	}
}

func TestSubsecondTicksOnlyRender(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 30, 30), midMonth)

	f.Process(Input{Type: InputButtonDown, Control: ControlA})
	for i := 0; i < 10; i++ {
		r := f.Process(Input{Type: InputTick, Subsecond: 3})
		if len(r.Events) != 0 {
			t.Fatalf("phase 3 tick should not run 1 Hz logic, got %+v", r.Events)
		}
		if r.Render.Top != "A:000 B:00" {
			t.Errorf("unexpected render: %+v", r.Render)
		}
	}
}

func TestNormalRender(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(7, 42, 30, 30), midMonth)
	r := f.Process(tick(0))
	if r.Render.Top != "A:007 B:42" {
		t.Errorf("expected top %q, got %q", "A:007 B:42", r.Render.Top)
	}
	if !r.Render.ShowTime {
		t.Error("expected live time in NORMAL")
	}
}

func TestSingleTapShowsGetA(t *testing.T) {
	// Goal 12, tally 0, day 15 of 30 -> deficit 6
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 12, 12), midMonth)

	f.Process(tapTick(0, single))
	r := f.Process(tick(2000))

	if f.Mode() != ModeShowGet {
		t.Fatalf("expected SHOW_GET, got %s", f.Mode())
	}
	if r.Render.Top != "GET A" || r.Render.Main != "6.00" {
		t.Errorf("unexpected render: %+v", r.Render)
	}
	if r.Render.ShowTime {
		t.Error("alert should replace live time")
	}
}

func TestSingleTapWithoutDeficitStaysNormal(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(10, 0, 12, 12), midMonth)

	f.Process(tapTick(0, single))
	f.Process(tick(2000))
	if f.Mode() != ModeNormal {
		t.Errorf("expected NORMAL when A is on track, got %s", f.Mode())
	}
}

func TestLateSecondTapDelaysGetA(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 12, 12), midMonth)

	f.Process(tapTick(0, single))
	f.Process(tick(1000))
	r := f.Process(tapTick(2000, single))
	if f.Mode() != ModeNormal || len(r.Events) != 0 {
		t.Fatalf("expected NORMAL with no events when the run restarts, got %s %+v", f.Mode(), r.Events)
	}
	f.Process(tick(3000))
	if f.Mode() != ModeNormal {
		t.Fatalf("expected NORMAL inside the new window, got %s", f.Mode())
	}

	r = f.Process(tick(4000))
	if f.Mode() != ModeShowGet {
		t.Fatalf("expected SHOW_GET once the new run times out, got %s", f.Mode())
	}
	if r.Render.Top != "GET A" || r.Render.Main != "6.00" {
		t.Errorf("unexpected render: %+v", r.Render)
	}
	var gestures int
	for _, e := range r.Events {
		if e.Type == EventGesture {
			gestures++
		}
	}
	if gestures != 1 {
		t.Errorf("expected one GESTURE event, got %+v", r.Events)
	}
}

func TestDoubleTapPrioritisesA(t *testing.T) {
	// Both behind: double tap is for B but A is shown first
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 12, 20), midMonth)

	r := f.Process(tapTick(0, TapBits{Double: true}))
	if f.Mode() != ModeShowGet {
		t.Fatalf("expected SHOW_GET, got %s", f.Mode())
	}
	if r.Render.Top != "GET A" {
		t.Errorf("expected A priority, got %+v", r.Render)
	}
}

func TestDoubleTapShowsGetB(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(6, 0, 12, 20), midMonth)

	r := f.Process(tapTick(0, TapBits{Double: true}))
	if r.Render.Top != "GET B" || r.Render.Main != "10.00" {
		t.Errorf("unexpected render: %+v", r.Render)
	}
}

func TestShowGetCountdown(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFace(cfg, newMemSlots(0, 0, 12, 12), midMonth)

	f.Process(tapTick(0, TapBits{Double: true}))
	if f.Mode() != ModeShowGet {
		t.Fatalf("expected SHOW_GET, got %s", f.Mode())
	}

	var last Result
	for i := 1; i < int(cfg.GetShowSeconds); i++ {
		last = f.Process(tick(uint32(i) * 1000))
		if f.Mode() != ModeShowGet && i < int(cfg.GetShowSeconds)-1 {
			t.Fatalf("left SHOW_GET early at second %d", i)
		}
	}
	if f.Mode() != ModeNormal {
		t.Fatalf("expected NORMAL after countdown, got %s", f.Mode())
	}
	found := false
	for _, e := range last.Events {
		if e.Type == EventMode && e.Mode == ModeNormal {
			found = true
		}
	}
	if !found {
		t.Errorf("expected MODE NORMAL event, got %+v", last.Events)
	}
}

func TestShowGetFallsBackWhenCleared(t *testing.T) {
	slots := newMemSlots(0, 0, 12, 12)
	f := NewFace(DefaultConfig(), slots, midMonth)

	f.Process(tapTick(0, TapBits{Double: true}))
	// Catch A and B up while the alert is showing
	f.tallies[ControlA].Value = 6
	f.tallies[ControlB].Value = 6

	r := f.Process(Input{Type: InputTick, Subsecond: 1})
	if f.Mode() != ModeShowGet {
		t.Errorf("stored mode should stay SHOW_GET, got %s", f.Mode())
	}
	if r.Render.Top != "A:006 B:06" || !r.Render.ShowTime {
		t.Errorf("expected NORMAL rendering fallback, got %+v", r.Render)
	}
}

func TestUnavailableDateNeverAlerts(t *testing.T) {
	cal := CalendarFunc(func() (Date, bool) { return Date{}, false })
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 999, 999), cal)

	f.Process(tapTick(0, TapBits{Double: true}))
	f.Process(tapTick(1000, single))
	f.Process(tick(5000))
	if f.Mode() != ModeNormal {
		t.Errorf("expected NORMAL with no date, got %s", f.Mode())
	}
}

func TestTripleTapCyclesEditModes(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 30, 30), midMonth)

	r := triple(f, 0)
	if f.Mode() != ModeSetA {
		t.Fatalf("expected SET_A, got %s", f.Mode())
	}
	if r.Render.Top != "SET A" || r.Render.Main != "30" {
		t.Errorf("unexpected render: %+v", r.Render)
	}

	triple(f, 5000)
	if f.Mode() != ModeSetB {
		t.Fatalf("expected SET_B, got %s", f.Mode())
	}

	triple(f, 10000)
	if f.Mode() != ModeSetA {
		t.Fatalf("expected SET_A again, got %s", f.Mode())
	}
}

func TestTripleTapFromShowGet(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 12, 12), midMonth)

	f.Process(tapTick(0, TapBits{Double: true}))
	triple(f, 1000)
	if f.Mode() != ModeSetA {
		t.Errorf("expected SET_A from SHOW_GET, got %s", f.Mode())
	}
}

func TestGoalEditClamps(t *testing.T) {
	slots := newMemSlots(0, 0, 3, 997)
	f := NewFace(DefaultConfig(), slots, midMonth)

	triple(f, 0)
	for i := 0; i < 10; i++ {
		f.Process(Input{Type: InputGoalDown})
	}
	if got := f.State().Goals[ControlA].Value; got != 1 {
		t.Errorf("expected goal A floor at 1, got %d", got)
	}
	if slots.values[SlotGoalA] != 1 {
		t.Errorf("expected persisted goal A 1, got %d", slots.values[SlotGoalA])
	}

	triple(f, 5000)
	for i := 0; i < 10; i++ {
		f.Process(Input{Type: InputGoalUp})
	}
	if got := f.State().Goals[ControlB].Value; got != 999 {
		t.Errorf("expected goal B ceiling at 999, got %d", got)
	}
	if slots.values[SlotGoalB] != 999 {
		t.Errorf("expected persisted goal B 999, got %d", slots.values[SlotGoalB])
	}
}

func TestButtonsEditGoalInSetMode(t *testing.T) {
	slots := newMemSlots(4, 4, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	triple(f, 0)
	r := f.Process(Input{Type: InputButtonDown, Control: ControlA})
	if len(r.Events) != 1 || r.Events[0].Type != EventGoal || r.Events[0].Value != 31 {
		t.Fatalf("expected GOAL 31 event, got %+v", r.Events)
	}
	f.Process(Input{Type: InputButtonUp, Control: ControlA})
	f.Process(Input{Type: InputButtonDown, Control: ControlB})
	f.Process(Input{Type: InputButtonDown, Control: ControlB})

	if got := f.State().Goals[ControlA].Value; got != 29 {
		t.Errorf("expected goal A 29, got %d", got)
	}

	// Holding a button while editing never touches the tally
	for i := 0; i < 6; i++ {
		f.Process(tick(uint32(10000 + i*1000)))
	}
	if got := f.State().Tallies[ControlB].Value; got != 4 {
		t.Errorf("expected tally B untouched while editing, got %d", got)
	}
}

func TestGoalEventsIgnoredOutsideSetMode(t *testing.T) {
	slots := newMemSlots(0, 0, 30, 30)
	f := NewFace(DefaultConfig(), slots, midMonth)

	r := f.Process(Input{Type: InputGoalUp})
	if len(r.Events) != 0 || len(slots.writes) != 0 {
		t.Errorf("expected no goal change in NORMAL, got events=%+v writes=%v", r.Events, slots.writes)
	}
}

func TestModeExit(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 30, 30), midMonth)

	triple(f, 0)
	r := f.Process(Input{Type: InputModeExit})
	if r.Leave {
		t.Error("mode-exit from SET_A should not leave the face")
	}
	if f.Mode() != ModeNormal {
		t.Fatalf("expected NORMAL, got %s", f.Mode())
	}

	r = f.Process(Input{Type: InputModeExit})
	if !r.Leave {
		t.Error("mode-exit from NORMAL should leave the face")
	}
	if len(r.Events) != 1 || r.Events[0].Type != EventLeave || string(r.Events[0].Type) != "LEAVE" {
		t.Errorf("expected a single LEAVE event, got %+v", r.Events)
	}
}

func TestActivateResetsTransientState(t *testing.T) {
	f := NewFace(DefaultConfig(), newMemSlots(0, 0, 30, 30), midMonth)

	triple(f, 0)
	f.Process(tapTick(3000, single))
	f.Process(Input{Type: InputActivate})

	s := f.State()
	if s.Mode != ModeNormal {
		t.Errorf("expected NORMAL after activate, got %s", s.Mode)
	}
	if s.Taps != (TapWindow{}) {
		t.Errorf("expected empty tap window, got %+v", s.Taps)
	}
}

func TestResignWritesAllSlots(t *testing.T) {
	slots := newMemSlots(3, 4, 50, 60)
	f := NewFace(DefaultConfig(), slots, midMonth)

	f.Resign()
	if len(slots.writes) != NumSlots {
		t.Fatalf("expected %d writes, got %v", NumSlots, slots.writes)
	}
	want := [NumSlots]uint16{3, 4, 50, 60}
	if slots.values != want {
		t.Errorf("expected %v, got %v", want, slots.values)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.ResetHoldSeconds = bad.IncrementHoldSeconds
	if err := bad.Validate(); err == nil {
		t.Error("expected error when reset hold does not exceed increment hold")
	}

	bad = DefaultConfig()
	bad.GoalDefault = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for default goal below min")
	}
}
