package logic

// TapWindow is the pending tap run carried between ticks.
type TapWindow struct {
	Pending     uint8
	LastTap     uint32
	LastGesture uint32
	// HasGesture is false until the first confirmed gesture, so the
	// first gesture after activation is never debounced.
	HasGesture bool
}

// TapClassifier disambiguates single, double and triple tap gestures.
//
// A double tap reported by the driver is confirmed immediately. Single taps
// are held back for up to the triple window so that three of them can be
// upgraded to a triple. Confirmed gestures are spaced at least the debounce
// interval apart. Timestamps are compared with wrapping uint32 arithmetic.
type TapClassifier struct {
	tripleWindowMs uint32
	debounceMs     uint32
	window         TapWindow
}

// NewTapClassifier creates a classifier with the given triple window and debounce.
func NewTapClassifier(tripleWindowMs, debounceMs uint32) TapClassifier {
	return TapClassifier{
		tripleWindowMs: tripleWindowMs,
		debounceMs:     debounceMs,
	}
}

// Process consumes the tap bits latched for this tick and returns at most one gesture.
func (c *TapClassifier) Process(bits TapBits, now uint32) Gesture {
	w := &c.window

	switch {
	case bits.Double && c.debounced(now):
		w.Pending = 0
		w.LastTap = 0
		c.confirm(now)
		return GestureDouble

	case bits.Single && c.debounced(now):
		if w.Pending == 0 || now-w.LastTap <= c.tripleWindowMs {
			w.Pending++
		} else {
			// A run that expired without a tick in between is dropped.
			w.Pending = 1
		}
		w.LastTap = now

		if w.Pending >= 3 {
			w.Pending = 0
			c.confirm(now)
			return GestureTriple
		}
		return GestureNone
	}

	if w.Pending > 0 && now-w.LastTap > c.tripleWindowMs {
		w.Pending = 0
		if c.debounced(now) {
			c.confirm(now)
			return GestureSingle
		}
	}

	return GestureNone
}

// Reset discards any pending run and the debounce history.
func (c *TapClassifier) Reset() {
	c.window = TapWindow{}
}

// Window returns the current tap window.
func (c *TapClassifier) Window() TapWindow {
	return c.window
}

func (c *TapClassifier) debounced(now uint32) bool {
	if !c.window.HasGesture {
		return true
	}
	return now-c.window.LastGesture > c.debounceMs
}

func (c *TapClassifier) confirm(now uint32) {
	c.window.LastGesture = now
	c.window.HasGesture = true
}
