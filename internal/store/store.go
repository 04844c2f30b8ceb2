// Package store provides durable slot storage for the goal tracker face.
// Backends persist four uint16 slots; Slots adapts a Backend to the
// infallible logic.Slots contract by logging failures.
package store

import (
	"errors"
	"fmt"
	"log"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// Erased is the value an unwritten slot reads back as.
const Erased uint16 = 0xFFFF

// ErrBadSlot is returned for a slot id outside the layout.
var ErrBadSlot = errors.New("store: bad slot")

// Backend persists slot values.
type Backend interface {
	// Load returns the stored value, or Erased if the slot was never written.
	Load(slot logic.Slot) (uint16, error)

	// Save stores a value durably before returning.
	Save(slot logic.Slot, value uint16) error

	// Close releases backend resources.
	Close() error
}

func checkSlot(slot logic.Slot) error {
	if slot >= logic.NumSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	return nil
}

// Slots adapts a Backend to logic.Slots.
// A failed load reads as Erased so the face substitutes its defaults.
type Slots struct {
	backend Backend
}

// NewSlots wraps a backend.
func NewSlots(b Backend) *Slots {
	return &Slots{backend: b}
}

// Read implements logic.Slots.
func (s *Slots) Read(slot logic.Slot) uint16 {
	v, err := s.backend.Load(slot)
	if err != nil {
		log.Printf("store: load %s: %v", slot, err)
		return Erased
	}
	return v
}

// Write implements logic.Slots.
func (s *Slots) Write(slot logic.Slot, value uint16) {
	if err := s.backend.Save(slot, value); err != nil {
		log.Printf("store: save %s=%d: %v", slot, value, err)
	}
}

// Values loads all four slots in slot order.
func Values(b Backend) ([logic.NumSlots]uint16, error) {
	var out [logic.NumSlots]uint16
	for i := range out {
		v, err := b.Load(logic.Slot(i))
		if err != nil {
			return out, fmt.Errorf("load %s: %w", logic.Slot(i), err)
		}
		out[i] = v
	}
	return out, nil
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindBackup = "backup"
	KindSQLite = "sqlite"
)

// Open creates the backend of the given kind. path is ignored for memory.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindBackup:
		b, err := OpenBackup(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", kind)
	}
}
