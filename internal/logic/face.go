package logic

import (
	"errors"
	"fmt"
)

// Config holds the face thresholds and limits.
type Config struct {
	IncrementHoldSeconds uint8
	ResetHoldSeconds     uint8
	TripleWindowMs       uint32
	DebounceMs           uint32
	GetShowSeconds       uint8
	TallyMax             [2]uint16
	GoalMin              uint16
	GoalMax              uint16
	GoalDefault          uint16
}

// DefaultConfig returns the stock face configuration.
func DefaultConfig() Config {
	return Config{
		IncrementHoldSeconds: 2,
		ResetHoldSeconds:     5,
		TripleWindowMs:       1500,
		DebounceMs:           300,
		GetShowSeconds:       5,
		TallyMax:             [2]uint16{999, 999},
		GoalMin:              1,
		GoalMax:              999,
		GoalDefault:          30,
	}
}

// Validate checks that the thresholds and limits are consistent.
func (c Config) Validate() error {
	if c.IncrementHoldSeconds == 0 {
		return errors.New("increment hold must be at least 1s")
	}
	if c.ResetHoldSeconds <= c.IncrementHoldSeconds {
		return fmt.Errorf("reset hold %ds must exceed increment hold %ds", c.ResetHoldSeconds, c.IncrementHoldSeconds)
	}
	if c.GetShowSeconds == 0 {
		return errors.New("alert duration must be at least 1s")
	}
	if c.GoalMin > c.GoalMax {
		return fmt.Errorf("goal min %d exceeds goal max %d", c.GoalMin, c.GoalMax)
	}
	if c.GoalDefault < c.GoalMin || c.GoalDefault > c.GoalMax {
		return fmt.Errorf("goal default %d outside [%d, %d]", c.GoalDefault, c.GoalMin, c.GoalMax)
	}
	return nil
}

var (
	tallySlots = [2]Slot{SlotTallyA, SlotTallyB}
	goalSlots  = [2]Slot{SlotGoalA, SlotGoalB}
)

// FaceState is a point-in-time copy of the face state.
type FaceState struct {
	Mode      Mode
	Tallies   [2]Counter
	Goals     [2]Goal
	Deficits  [2]float64
	Countdown uint8
	Holds     [2]HoldState
	Taps      TapWindow
}

// Face is the mode state machine for one face instance. It owns the tallies,
// goals, hold trackers and tap window, and writes every change through to Slots.
// A Face is not safe for concurrent use; the host delivers one input at a time.
type Face struct {
	cfg   Config
	slots Slots
	cal   Calendar

	tallies [2]Counter
	goals   [2]Goal
	holds   [2]HoldTracker
	pressed [2]bool
	taps    TapClassifier

	mode      Mode
	countdown uint8
}

// NewFace sets up a face, loading and validating the persisted tallies and goals.
func NewFace(cfg Config, slots Slots, cal Calendar) *Face {
	f := &Face{
		cfg:   cfg,
		slots: slots,
		cal:   cal,
		taps:  NewTapClassifier(cfg.TripleWindowMs, cfg.DebounceMs),
	}
	for i := range f.holds {
		f.holds[i] = NewHoldTracker(cfg.IncrementHoldSeconds, cfg.ResetHoldSeconds)
	}
	f.load()
	return f
}

func (f *Face) load() {
	for i, slot := range tallySlots {
		limit := f.cfg.TallyMax[i]
		v := f.slots.Read(slot)
		if v > limit {
			v = limit
		}
		f.tallies[i] = Counter{Value: v, Max: limit}
	}
	for i, slot := range goalSlots {
		v := f.slots.Read(slot)
		if v < f.cfg.GoalMin || v > f.cfg.GoalMax {
			v = f.cfg.GoalDefault
		}
		f.goals[i] = Goal{Value: v, Min: f.cfg.GoalMin, Max: f.cfg.GoalMax}
	}
}

// Process handles one input and returns the resulting render instruction and events.
func (f *Face) Process(in Input) Result {
	var r Result

	switch in.Type {
	case InputActivate:
		f.activate()

	case InputButtonDown:
		c := in.Control
		if !f.known(c) {
			break
		}
		switch f.mode {
		case ModeSetA, ModeSetB:
			if c == ControlA {
				f.adjustGoal(1, &r)
			} else {
				f.adjustGoal(-1, &r)
			}
		default:
			f.pressed[c] = true
			f.holds[c].Release()
		}

	case InputButtonUp:
		c := in.Control
		if !f.known(c) {
			break
		}
		f.pressed[c] = false
		f.holds[c].Release()

	case InputGoalUp:
		f.adjustGoal(1, &r)

	case InputGoalDown:
		f.adjustGoal(-1, &r)

	case InputModeExit:
		if f.mode == ModeNormal {
			r.Leave = true
			r.Events = append(r.Events, Event{Type: EventLeave, Mode: f.mode})
		} else {
			f.setMode(ModeNormal, &r)
		}

	case InputTick:
		if in.Subsecond == 0 {
			f.second(in, &r)
		}
	}

	r.Render = f.Render()
	return r
}

// known reports whether c is bound to a counter; other controls are ignored.
func (f *Face) known(c Control) bool {
	return int(c) < len(f.holds)
}

// second runs the 1 Hz logic: hold accounting, tap classification, alert countdown.
func (f *Face) second(in Input, r *Result) {
	if !f.editing() {
		for i := range f.holds {
			c := Control(i)
			if a := f.holds[i].Tick(f.pressed[i]); a != ActionNone {
				f.applyAction(c, a, r)
			}
		}
	}

	if g := f.taps.Process(in.Taps, in.NowMs); g != GestureNone {
		r.Events = append(r.Events, Event{Type: EventGesture, Gesture: g, Mode: f.mode})
		f.applyGesture(g, r)
	}

	if f.mode == ModeShowGet {
		if f.countdown > 0 {
			f.countdown--
		}
		if f.countdown == 0 {
			f.setMode(ModeNormal, r)
		}
	}
}

func (f *Face) applyAction(c Control, a Action, r *Result) {
	f.tallies[c].Apply(a)
	f.slots.Write(tallySlots[c], f.tallies[c].Value)

	typ := EventIncrement
	if a == ActionReset {
		typ = EventReset
	}
	r.Events = append(r.Events, Event{Type: typ, Control: c, Value: f.tallies[c].Value, Mode: f.mode})
}

func (f *Face) applyGesture(g Gesture, r *Result) {
	switch g {
	case GestureSingle:
		if f.deficit(ControlA) > Epsilon {
			f.showGet(r)
		}
	case GestureDouble:
		if f.deficit(ControlB) > Epsilon {
			f.showGet(r)
		}
	case GestureTriple:
		if f.mode == ModeSetA {
			f.setMode(ModeSetB, r)
		} else {
			f.setMode(ModeSetA, r)
		}
	}
}

func (f *Face) showGet(r *Result) {
	f.countdown = f.cfg.GetShowSeconds
	f.setMode(ModeShowGet, r)
}

func (f *Face) adjustGoal(delta int, r *Result) {
	var c Control
	switch f.mode {
	case ModeSetA:
		c = ControlA
	case ModeSetB:
		c = ControlB
	default:
		return
	}

	g := &f.goals[c]
	if delta > 0 && g.Value < g.Max {
		g.Value++
	} else if delta < 0 && g.Value > g.Min {
		g.Value--
	}
	f.slots.Write(goalSlots[c], g.Value)
	r.Events = append(r.Events, Event{Type: EventGoal, Control: c, Value: g.Value, Mode: f.mode})
}

func (f *Face) setMode(m Mode, r *Result) {
	if m == f.mode {
		return
	}
	f.mode = m
	if f.editing() {
		// Holds never run while editing a goal.
		f.pressed = [2]bool{}
		for i := range f.holds {
			f.holds[i].Release()
		}
	}
	r.Events = append(r.Events, Event{Type: EventMode, Mode: m})
}

func (f *Face) activate() {
	f.mode = ModeNormal
	f.countdown = 0
	f.pressed = [2]bool{}
	for i := range f.holds {
		f.holds[i].Release()
	}
	f.taps.Reset()
}

// Resign writes all tallies and goals back unconditionally.
func (f *Face) Resign() {
	for i := range tallySlots {
		f.slots.Write(tallySlots[i], f.tallies[i].Value)
		f.slots.Write(goalSlots[i], f.goals[i].Value)
	}
}

func (f *Face) editing() bool {
	return f.mode == ModeSetA || f.mode == ModeSetB
}

func (f *Face) deficit(c Control) float64 {
	return DeficitOn(f.cal, f.goals[c].Value, f.tallies[c].Value)
}

// Render produces the display instruction for the current state.
// In SHOW_GET both deficits are recomputed and A takes priority over B.
func (f *Face) Render() Render {
	switch f.mode {
	case ModeShowGet:
		if d := f.deficit(ControlA); d > Epsilon {
			return Render{Top: "GET A", Main: fmt.Sprintf("%.2f", d)}
		}
		if d := f.deficit(ControlB); d > Epsilon {
			return Render{Top: "GET B", Main: fmt.Sprintf("%.2f", d)}
		}
	case ModeSetA:
		return Render{Top: "SET A", Main: fmt.Sprintf("%d", f.goals[ControlA].Value)}
	case ModeSetB:
		return Render{Top: "SET B", Main: fmt.Sprintf("%d", f.goals[ControlB].Value)}
	}
	return Render{
		Top:      fmt.Sprintf("A:%03d B:%02d", f.tallies[ControlA].Value, f.tallies[ControlB].Value),
		ShowTime: true,
	}
}

// Mode returns the current display mode.
func (f *Face) Mode() Mode {
	return f.mode
}

// State returns a copy of the face state.
func (f *Face) State() FaceState {
	s := FaceState{
		Mode:      f.mode,
		Tallies:   f.tallies,
		Goals:     f.goals,
		Countdown: f.countdown,
		Taps:      f.taps.Window(),
	}
	for i := range f.holds {
		s.Holds[i] = f.holds[i].State()
		s.Deficits[i] = f.deficit(Control(i))
	}
	return s
}
