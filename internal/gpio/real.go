//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// buttonDebounce is applied by the kernel to button lines.
// The host still debounces levels; this only trims contact chatter.
const buttonDebounce = 5 * time.Millisecond

// RealReader reads buttons and tap interrupts from actual hardware using the
// Linux GPIO character device.
//
// Buttons are wired to ground with internal pull-ups, so raw 0 = pressed.
// Tap interrupt pulses are short, so they are caught as rising edges by the
// kernel and latched until the next Read.
type RealReader struct {
	chip    *gpiocdev.Chip
	buttons [3]*gpiocdev.Line // A, B, Mode
	taps    [2]*gpiocdev.Line // single, double

	tapSingle atomic.Bool
	tapDouble atomic.Bool
}

// NewRealReader creates a reader for the given chip (e.g. "gpiochip0") and pins.
func NewRealReader(chip string, pins Pins) (*RealReader, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	r := &RealReader{chip: c}

	for i, pin := range []int{pins.A, pins.B, pins.Mode} {
		line, err := c.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithDebounce(buttonDebounce))
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request button pin %d: %w", pin, err)
		}
		r.buttons[i] = line
	}

	single, err := c.RequestLine(pins.TapSingle, gpiocdev.AsInput, gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge, gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { r.tapSingle.Store(true) }))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request tap pin %d: %w", pins.TapSingle, err)
	}
	r.taps[0] = single

	double, err := c.RequestLine(pins.TapDouble, gpiocdev.AsInput, gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge, gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { r.tapDouble.Store(true) }))
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("request tap pin %d: %w", pins.TapDouble, err)
	}
	r.taps[1] = double

	return r, nil
}

// Read returns the logical button levels and clears the latched taps.
func (r *RealReader) Read() (Sample, error) {
	var levels [3]bool
	for i, line := range r.buttons {
		v, err := line.Value()
		if err != nil {
			return Sample{}, fmt.Errorf("read button line %d: %w", i, err)
		}
		// Invert: raw 0 (pulled to ground) = pressed
		levels[i] = v == 0
	}

	return Sample{
		A:         levels[0],
		B:         levels[1],
		Mode:      levels[2],
		TapSingle: r.tapSingle.Swap(false),
		TapDouble: r.tapDouble.Swap(false),
	}, nil
}

// Close releases GPIO resources.
// Lines are reconfigured to plain inputs before closing to leave the pins in
// their boot state.
func (r *RealReader) Close() error {
	var errs []error

	for _, line := range append(r.buttons[:], r.taps[:]...) {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
