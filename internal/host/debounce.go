package host

import "time"

// Line identifies a debounced button line.
type Line uint8

const (
	LineA Line = iota
	LineB
	LineMode

	numLines = 3
)

func (l Line) String() string {
	switch l {
	case LineA:
		return "A"
	case LineB:
		return "B"
	case LineMode:
		return "MODE"
	default:
		return "UNKNOWN"
	}
}

// Edge is a debounced press or release.
type Edge struct {
	Line    Line
	Pressed bool
}

// lineState tracks debounce state for a single line.
type lineState struct {
	// Current stable (debounced) level
	Stable bool
	// Pending level during debounce
	Pending    bool
	HasPending bool
	// Time when pending level was first observed
	PendingSince time.Time
	// Whether we have established a baseline
	Baselined bool
}

// Debouncer turns raw button levels into debounced edges.
// No edges are reported until every line has held a level for the debounce
// duration, so a button already held at startup does not count as a press.
type Debouncer struct {
	duration  time.Duration
	lines     [numLines]lineState
	baselined bool
}

// NewDebouncer creates a debouncer with the given duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Process takes a new sample of levels (indexed by Line) and returns any edges.
// Edges are ordered A, B, MODE when several lines settle in the same sample.
func (d *Debouncer) Process(levels [numLines]bool, now time.Time) []Edge {
	var edges []Edge
	for i := range d.lines {
		if d.processLine(&d.lines[i], levels[i], now) {
			edges = append(edges, Edge{Line: Line(i), Pressed: d.lines[i].Stable})
		}
	}

	if !d.baselined {
		for i := range d.lines {
			if !d.lines[i].Baselined {
				return nil
			}
		}
		d.baselined = true
		return nil
	}

	return edges
}

// processLine handles debounce logic for a single line.
// Returns true if the stable level changed after baseline.
func (d *Debouncer) processLine(l *lineState, level bool, now time.Time) bool {
	if !l.Baselined {
		if !l.HasPending || l.Pending != level {
			l.Pending = level
			l.HasPending = true
			l.PendingSince = now
		}
		if now.Sub(l.PendingSince) >= d.duration {
			l.Stable = level
			l.Baselined = true
			l.HasPending = false
		}
		return false
	}

	if level == l.Stable {
		l.HasPending = false
		return false
	}

	if !l.HasPending || l.Pending != level {
		l.Pending = level
		l.HasPending = true
		l.PendingSince = now
		if d.duration > 0 {
			return false
		}
	}

	if now.Sub(l.PendingSince) >= d.duration {
		l.Stable = level
		l.HasPending = false
		return d.baselined
	}
	return false
}

// IsBaselined returns whether every line has an established level.
func (d *Debouncer) IsBaselined() bool {
	return d.baselined
}

// Pressed returns the stable level of a line.
func (d *Debouncer) Pressed(l Line) bool {
	return d.lines[l].Stable
}
