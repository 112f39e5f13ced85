package tabular

import (
	"context"

	"github.com/pkg/errors"
)

// MemoryStore keeps tables in a plain map. Used by tests and by the console
// REPL when no store file is wanted; nothing survives the process.
type MemoryStore struct {
	tables map[string][]Row

	// FailNext, when set, makes the next store call return that error.
	// FailTable narrows it to calls touching one table, so tests can
	// break a specific step in a longer read-modify-write sequence.
	FailNext  error
	FailTable string
}

func NewMemory() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Row)}
}

func (s *MemoryStore) fail(table string) error {
	if s.FailNext == nil {
		return nil
	}
	if s.FailTable != "" && s.FailTable != table {
		return nil
	}
	err := s.FailNext
	s.FailNext = nil
	s.FailTable = ""
	return err
}

func (s *MemoryStore) Append(ctx context.Context, table string, row Row) error {
	if err := s.fail(table); err != nil {
		return err
	}
	copied := make(Row, len(row))
	copy(copied, row)
	s.tables[table] = append(s.tables[table], copied)
	return nil
}

func (s *MemoryStore) ReadAll(ctx context.Context, table string) ([]Row, error) {
	if err := s.fail(table); err != nil {
		return nil, err
	}
	rows := make([]Row, len(s.tables[table]))
	copy(rows, s.tables[table])
	return rows, nil
}

func (s *MemoryStore) DeleteRow(ctx context.Context, table string, index int) error {
	if err := s.fail(table); err != nil {
		return err
	}
	rows := s.tables[table]
	if index < 0 || index >= len(rows) {
		return errors.Errorf("row %d out of range for table %q (%d rows)", index, table, len(rows))
	}
	s.tables[table] = append(rows[:index], rows[index+1:]...)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
