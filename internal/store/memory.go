package store

import "github.com/sweeney/goal-tracker/internal/logic"

// Memory is an in-memory Backend for tests. It starts erased.
type Memory struct {
	// Values holds the current slot contents.
	Values [logic.NumSlots]uint16

	// Saves records every save in order.
	Saves []Save

	// LoadError and SaveError, if set, are returned by Load and Save.
	LoadError error
	SaveError error

	// Closed tracks if Close was called.
	Closed bool
}

// Save is one recorded write.
type Save struct {
	Slot  logic.Slot
	Value uint16
}

// NewMemory creates an erased in-memory backend.
func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.Values {
		m.Values[i] = Erased
	}
	return m
}

// Load returns the slot value.
func (m *Memory) Load(slot logic.Slot) (uint16, error) {
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	if m.LoadError != nil {
		return 0, m.LoadError
	}
	return m.Values[slot], nil
}

// Save stores and records the value.
func (m *Memory) Save(slot logic.Slot, value uint16) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Values[slot] = value
	m.Saves = append(m.Saves, Save{Slot: slot, Value: value})
	return nil
}

// Close marks the backend as closed.
func (m *Memory) Close() error {
	m.Closed = true
	return nil
}
