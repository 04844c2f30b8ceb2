package display

import (
	"log"
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// Log writes a line whenever the instruction changes. Ticking time alone is not logged.
type Log struct {
	last    logic.Render
	started bool
}

// NewLog creates a logging display.
func NewLog() *Log {
	return &Log{}
}

// Show logs r if it differs from the previous frame.
func (l *Log) Show(r logic.Render, now time.Time) error {
	if l.started && r == l.last {
		return nil
	}
	l.last = r
	l.started = true
	log.Printf("display: top=%q main=%q", r.Top, MainLine(r, now))
	return nil
}
