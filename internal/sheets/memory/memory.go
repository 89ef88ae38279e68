// Package memory is an in-process sheets.FeeWriter used by tests and by
// deployments without a configured Google spreadsheet.
package memory

import (
	"context"
	"fmt"
	"sync"

	"feetracker/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.FeeRow
}

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.FeeRow) (string, error) {
	if err := row.Record.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []sheets.FeeRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.FeeRow(nil), s.rows...)
}
