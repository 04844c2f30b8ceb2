package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sweeney/goal-tracker/internal/logic"
)

// BankSize is the number of backup register bytes used by the face.
const BankSize = logic.NumSlots * 2

// Backup stores slots in a byte-addressed backup register bank, two bytes per
// slot with the low byte first:
//
//	0: TALLY_A_LO  1: TALLY_A_HI
//	2: TALLY_B_LO  3: TALLY_B_HI
//	4: GOAL_A_LO   5: GOAL_A_HI
//	6: GOAL_B_LO   7: GOAL_B_HI
//
// Erased registers read 0xFF. If a path is set, the bank is mirrored to that
// file after every write.
type Backup struct {
	bank [BankSize]byte
	path string
}

// NewBackup creates an erased bank with no file mirror.
func NewBackup() *Backup {
	b := &Backup{}
	for i := range b.bank {
		b.bank[i] = 0xFF
	}
	return b
}

// OpenBackup loads the bank from path, or starts erased if the file does not exist.
func OpenBackup(path string) (*Backup, error) {
	b := NewBackup()
	b.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup bank: %w", err)
	}
	if len(data) != BankSize {
		// Treat a truncated or foreign file as erased rather than half-loading it.
		return b, nil
	}
	copy(b.bank[:], data)
	return b, nil
}

// Load reads a slot from its lo/hi register pair.
func (b *Backup) Load(slot logic.Slot) (uint16, error) {
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	lo := b.bank[slot*2]
	hi := b.bank[slot*2+1]
	return uint16(lo) | uint16(hi)<<8, nil
}

// Save writes a slot to its lo/hi register pair and mirrors the bank.
func (b *Backup) Save(slot logic.Slot, value uint16) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	b.bank[slot*2] = byte(value & 0xFF)
	b.bank[slot*2+1] = byte(value >> 8)
	return b.flush()
}

// Bank returns a copy of the raw register bytes.
func (b *Backup) Bank() [BankSize]byte {
	return b.bank
}

// Close is a no-op; every save is already flushed.
func (b *Backup) Close() error {
	return nil
}

func (b *Backup) flush() error {
	if b.path == "" {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".bank-*")
	if err != nil {
		return fmt.Errorf("create temp bank: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b.bank[:]); err != nil {
		tmp.Close()
		return fmt.Errorf("write bank: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync bank: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bank: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("rename bank: %w", err)
	}
	return nil
}
