package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// lcdWidth is the character width of the segment display.
const lcdWidth = 10

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	topStyle   = lipgloss.NewStyle().Width(lcdWidth).Foreground(lipgloss.Color("6"))
	mainStyle  = lipgloss.NewStyle().Width(lcdWidth).Bold(true).Align(lipgloss.Right)
	alertStyle = mainStyle.Foreground(lipgloss.Color("1"))
)

// Terminal draws the face as a two-line LCD in the terminal, redrawing in place.
type Terminal struct {
	w     io.Writer
	lines int
}

// NewTerminal creates a terminal display writing to w (stdout if nil).
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stdout
	}
	return &Terminal{w: w}
}

// Frame returns the styled frame for r.
func Frame(r logic.Render, now time.Time) string {
	main := mainStyle
	if !r.ShowTime && strings.HasPrefix(r.Top, "GET") {
		main = alertStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		topStyle.Render(r.Top),
		main.Render(MainLine(r, now)),
	)
	return frameStyle.Render(body)
}

// Show redraws the frame over the previous one.
func (t *Terminal) Show(r logic.Render, now time.Time) error {
	frame := Frame(r, now)
	if t.lines > 0 {
		// Move the cursor back up over the previous frame.
		if _, err := fmt.Fprintf(t.w, "\033[%dA", t.lines); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(t.w, frame); err != nil {
		return err
	}
	t.lines = lipgloss.Height(frame)
	return nil
}
