// Package ledger owns the two in-memory collections (students, fee records)
// and their persistence round-trip through the external key-value store.
// Every mutation validates first, applies in memory, then writes both blobs
// through; a failed write surfaces as *PersistenceError without rolling the
// mutation back.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"feetracker/internal/core"
	"feetracker/internal/kvstore"
)

const (
	keyStudents   = "students"
	keyFeeRecords = "feeRecords"
)

// Ledger is the store object constructed once at process start and handed to
// every operation. There is no package-level instance.
type Ledger struct {
	store kvstore.Store
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	students []core.Student
	records  []core.FeeRecord
}

// Option customizes a Ledger; used by tests to pin clocks and ids.
type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

func New(store kvstore.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads both collection blobs. A missing or unparsable blob yields an
// empty collection for that key; load never fails the process over bad data.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.students = loadCollection[core.Student](ctx, l.store, keyStudents)
	l.records = loadCollection[core.FeeRecord](ctx, l.store, keyFeeRecords)

	slog.InfoContext(ctx, "Ledger loaded",
		"students", len(l.students),
		"fee_records", len(l.records))
	return nil
}

func loadCollection[T any](ctx context.Context, store kvstore.Store, key string) []T {
	blob, err := store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to read blob, starting empty", "key", key, "error", err)
		return nil
	}
	var out []T
	if err := json.Unmarshal(blob, &out); err != nil {
		slog.WarnContext(ctx, "Failed to decode blob, starting empty", "key", key, "error", err)
		return nil
	}
	return out
}

// save writes both collections as independent blobs. Not transactional: a
// crash between the two writes is an accepted inconsistency window.
func (l *Ledger) save(ctx context.Context) error {
	studentBlob, err := json.Marshal(l.students)
	if err != nil {
		return &PersistenceError{Op: keyStudents, Err: fmt.Errorf("encode: %w", err)}
	}
	recordBlob, err := json.Marshal(l.records)
	if err != nil {
		return &PersistenceError{Op: keyFeeRecords, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := l.store.Set(ctx, keyStudents, studentBlob); err != nil {
		return &PersistenceError{Op: keyStudents, Err: err}
	}
	if err := l.store.Set(ctx, keyFeeRecords, recordBlob); err != nil {
		return &PersistenceError{Op: keyFeeRecords, Err: err}
	}
	return nil
}

// Students returns a copy of the student collection.
func (l *Ledger) Students() []core.Student {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Student(nil), l.students...)
}

// FeeRecords returns a copy of the fee record collection.
func (l *Ledger) FeeRecords() []core.FeeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.FeeRecord(nil), l.records...)
}

// Student looks up a student by id.
func (l *Ledger) Student(id string) (core.Student, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.students {
		if s.ID == id {
			return s, true
		}
	}
	return core.Student{}, false
}

// FeeRecord looks up a fee record by id.
func (l *Ledger) FeeRecord(id string) (core.FeeRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return core.FeeRecord{}, false
}

// Snapshot returns copies of both collections taken under one lock.
func (l *Ledger) Snapshot() ([]core.Student, []core.FeeRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Student(nil), l.students...),
		append([]core.FeeRecord(nil), l.records...)
}

// Reset unconditionally clears both persisted blobs and both in-memory
// collections. Any confirmation gate belongs to the caller.
func (l *Ledger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.students = nil
	l.records = nil

	if err := l.store.Delete(ctx, keyStudents); err != nil {
		return &PersistenceError{Op: keyStudents, Err: err}
	}
	if err := l.store.Delete(ctx, keyFeeRecords); err != nil {
		return &PersistenceError{Op: keyFeeRecords, Err: err}
	}
	slog.InfoContext(ctx, "Ledger reset, all data cleared")
	return nil
}

// Replace swaps in whole collections, used by the bulk import tool. Records
// are validated individually; invalid entries are skipped with a warning so a
// partially damaged dump still imports.
func (l *Ledger) Replace(ctx context.Context, students []core.Student, records []core.FeeRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]core.Student, 0, len(students))
	for _, s := range students {
		if err := s.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid student on import", "id", s.ID, "error", err)
			continue
		}
		kept = append(kept, s)
	}
	keptRecords := make([]core.FeeRecord, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			slog.WarnContext(ctx, "Skipping invalid fee record on import", "id", r.ID, "error", err)
			continue
		}
		keptRecords = append(keptRecords, r)
	}

	l.students = kept
	l.records = keptRecords
	for i := range l.students {
		l.recomputeTotalsLocked(l.students[i].ID)
	}
	return l.save(ctx)
}
