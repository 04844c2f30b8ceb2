package display

import (
	"time"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// Fake records frames for test assertions.
type Fake struct {
	// Frames contains every instruction shown.
	Frames []logic.Render

	// ShowError, if set, will be returned by Show.
	ShowError error
}

// NewFake creates a Fake display.
func NewFake() *Fake {
	return &Fake{}
}

// Show records the frame.
func (f *Fake) Show(r logic.Render, _ time.Time) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	f.Frames = append(f.Frames, r)
	return nil
}

// Last returns the most recent frame.
func (f *Fake) Last() logic.Render {
	if len(f.Frames) == 0 {
		return logic.Render{}
	}
	return f.Frames[len(f.Frames)-1]
}
