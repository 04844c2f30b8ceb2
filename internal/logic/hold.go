package logic

// HoldState tracks a single continuous press of one control.
//
// Increment and reset keep separate fired flags. A single flag would be set
// by the increment at the first threshold and block the reset, so a hold
// that reaches the reset threshold must still end with the counter at zero.
type HoldState struct {
	// Whole seconds the control has been held
	Elapsed uint8
	// Whether each action already fired during this hold
	IncrementFired bool
	ResetFired     bool
}

// HoldTracker turns per-second pressed samples into at most one Increment and
// at most one Reset per continuous hold.
type HoldTracker struct {
	incrementSeconds uint8
	resetSeconds     uint8
	state            HoldState
}

// NewHoldTracker creates a tracker with the given thresholds in seconds.
// resetSeconds must be greater than incrementSeconds.
func NewHoldTracker(incrementSeconds, resetSeconds uint8) HoldTracker {
	return HoldTracker{
		incrementSeconds: incrementSeconds,
		resetSeconds:     resetSeconds,
	}
}

// Tick accounts one second of the control being pressed or released and
// returns the action fired by this second, if any.
func (h *HoldTracker) Tick(pressed bool) Action {
	if !pressed {
		h.Release()
		return ActionNone
	}

	if h.state.Elapsed < ^uint8(0) {
		h.state.Elapsed++
	}

	if h.state.Elapsed >= h.resetSeconds {
		if h.state.ResetFired {
			return ActionNone
		}
		h.state.ResetFired = true
		return ActionReset
	}

	if h.state.Elapsed >= h.incrementSeconds && !h.state.IncrementFired {
		h.state.IncrementFired = true
		return ActionIncrement
	}

	return ActionNone
}

// Release re-arms the tracker for a new hold.
func (h *HoldTracker) Release() {
	h.state = HoldState{}
}

// State returns the current hold state.
func (h *HoldTracker) State() HoldState {
	return h.state
}

// Apply performs an action on a counter. Increment saturates at Max; Reset sets 0.
// Returns whether the counter value changed.
func (c *Counter) Apply(a Action) bool {
	old := c.Value
	switch a {
	case ActionIncrement:
		if c.Value < c.Max {
			c.Value++
		}
	case ActionReset:
		c.Value = 0
	}
	return c.Value != old
}
