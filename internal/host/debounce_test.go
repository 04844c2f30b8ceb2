package host

import (
	"testing"
	"time"
)

func levels(a, b, mode bool) [numLines]bool {
	return [numLines]bool{a, b, mode}
}

func setupBaselinedDebouncer(t *testing.T, a, b bool) (*Debouncer, time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(50 * time.Millisecond)
	d.Process(levels(a, b, false), now)
	d.Process(levels(a, b, false), now.Add(50*time.Millisecond))
	if !d.IsBaselined() {
		t.Fatal("expected baseline")
	}
	return d, now.Add(time.Second)
}

func TestDebouncerBaseline(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(50 * time.Millisecond)

	if edges := d.Process(levels(true, false, false), now); len(edges) != 0 {
		t.Errorf("expected no edges during baseline, got %v", edges)
	}
	if d.IsBaselined() {
		t.Error("should not be baselined after first sample")
	}

	if edges := d.Process(levels(true, false, false), now.Add(50*time.Millisecond)); len(edges) != 0 {
		t.Errorf("expected no edges at baseline establishment, got %v", edges)
	}
	if !d.IsBaselined() {
		t.Fatal("should be baselined after debounce period")
	}

	// A button held through startup is not a press
	if !d.Pressed(LineA) {
		t.Error("expected A to baseline as pressed")
	}
}

func TestDebouncerBaselineResetOnChange(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(50 * time.Millisecond)

	d.Process(levels(true, false, false), now)
	d.Process(levels(false, false, false), now.Add(30*time.Millisecond))
	d.Process(levels(false, false, false), now.Add(60*time.Millisecond))
	if d.IsBaselined() {
		t.Error("A changed during baseline; timer should have restarted")
	}

	d.Process(levels(false, false, false), now.Add(80*time.Millisecond))
	if !d.IsBaselined() {
		t.Error("expected baseline 50ms after the change")
	}
}

func TestDebouncerPressAndRelease(t *testing.T) {
	d, now := setupBaselinedDebouncer(t, false, false)

	if edges := d.Process(levels(true, false, false), now); len(edges) != 0 {
		t.Errorf("expected no edge before debounce, got %v", edges)
	}
	edges := d.Process(levels(true, false, false), now.Add(50*time.Millisecond))
	if len(edges) != 1 || edges[0] != (Edge{Line: LineA, Pressed: true}) {
		t.Fatalf("expected A press, got %v", edges)
	}

	d.Process(levels(false, false, false), now.Add(500*time.Millisecond))
	edges = d.Process(levels(false, false, false), now.Add(600*time.Millisecond))
	if len(edges) != 1 || edges[0] != (Edge{Line: LineA, Pressed: false}) {
		t.Fatalf("expected A release, got %v", edges)
	}
}

func TestDebouncerIgnoresGlitch(t *testing.T) {
	d, now := setupBaselinedDebouncer(t, false, false)

	d.Process(levels(false, true, false), now)
	edges := d.Process(levels(false, false, false), now.Add(20*time.Millisecond))
	edges = append(edges, d.Process(levels(false, false, false), now.Add(100*time.Millisecond))...)
	if len(edges) != 0 {
		t.Errorf("expected glitch to be ignored, got %v", edges)
	}
}

func TestDebouncerSimultaneousOrder(t *testing.T) {
	d, now := setupBaselinedDebouncer(t, false, false)

	d.Process(levels(true, true, true), now)
	edges := d.Process(levels(true, true, true), now.Add(50*time.Millisecond))
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %v", edges)
	}
	for i, want := range []Line{LineA, LineB, LineMode} {
		if edges[i].Line != want {
			t.Errorf("edge %d: expected %s, got %s", i, want, edges[i].Line)
		}
	}
}

func TestDebouncerZeroDuration(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(0)

	d.Process(levels(false, false, false), now)
	if !d.IsBaselined() {
		t.Fatal("expected immediate baseline with zero debounce")
	}
	edges := d.Process(levels(false, true, false), now.Add(time.Millisecond))
	if len(edges) != 1 || edges[0] != (Edge{Line: LineB, Pressed: true}) {
		t.Errorf("expected immediate B press, got %v", edges)
	}
}
