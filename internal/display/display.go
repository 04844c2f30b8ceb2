// Package display renders face instructions.
package display

import (
	"fmt"
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// Display consumes render instructions.
type Display interface {
	Show(r logic.Render, now time.Time) error
}

// TimeFormat is the live time shown in place of the main line.
const TimeFormat = "15:04:05"

// MainLine resolves the main line of r, substituting the formatted time when requested.
func MainLine(r logic.Render, now time.Time) string {
	if r.ShowTime {
		return now.Format(TimeFormat)
	}
	return r.Main
}

// Kinds accepted by New.
const (
	KindLog  = "log"
	KindTerm = "term"
	KindNone = "none"
)

// New returns the display of the given kind.
func New(kind string) (Display, error) {
	switch kind {
	case KindLog:
		return NewLog(), nil
	case KindTerm:
		return NewTerminal(nil), nil
	case KindNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("display: unknown kind %q", kind)
	}
}

// Discard drops every frame.
type Discard struct{}

// Show does nothing.
func (Discard) Show(logic.Render, time.Time) error { return nil }
