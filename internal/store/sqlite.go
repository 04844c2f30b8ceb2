package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sweeney/goal-tracker/internal/logic"
)

const schema = `CREATE TABLE IF NOT EXISTS slots (
	id    INTEGER PRIMARY KEY,
	value INTEGER NOT NULL
)`

// SQLite stores slots as rows in a single table. A missing row reads as Erased.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an open database and creates the slots table if needed.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("store: nil db")
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; the face delivers one write at a time.
	db.SetMaxOpenConns(1)

	s, err := NewSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Load reads a slot row.
func (s *SQLite) Load(slot logic.Slot) (uint16, error) {
	if err := checkSlot(slot); err != nil {
		return 0, err
	}
	var v int64
	err := s.db.QueryRow(`SELECT value FROM slots WHERE id = ?`, int(slot)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return Erased, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select slot %s: %w", slot, err)
	}
	if v < 0 || v > int64(Erased) {
		return Erased, nil
	}
	return uint16(v), nil
}

// Save upserts a slot row.
func (s *SQLite) Save(slot logic.Slot, value uint16) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO slots (id, value) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value`,
		int(slot), int64(value),
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", slot, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
