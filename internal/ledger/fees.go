package ledger

import (
	"context"
	"log/slog"
	"strings"

	"feetracker/internal/core"
	"feetracker/internal/report"
)

// FeeInput carries the caller-supplied fields for recording or editing a
// month's payment entry.
type FeeInput struct {
	StudentID   string
	Month       core.Month
	Year        int
	Amount      core.Money
	PaymentDate core.Date
	Status      core.Status
	Notes       string
}

// ConfirmOverwrite is the human-in-the-loop gate consulted when an add
// collides with an existing (student, month, year) record. Returning false
// abandons the operation with no state change.
type ConfirmOverwrite func(existing core.FeeRecord) bool

// AddOrUpdateFeeRecord records a payment for a student and month. If a record
// for the same (student, month, year) already exists the confirm gate decides
// whether its fields are replaced in place (id and recordDate preserved).
// Either path recomputes the owning student's totals and persists.
func (l *Ledger) AddOrUpdateFeeRecord(ctx context.Context, in FeeInput, confirm ConfirmOverwrite) (core.FeeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record := core.FeeRecord{
		ID:          l.newID(),
		StudentID:   strings.TrimSpace(in.StudentID),
		Month:       in.Month,
		Year:        in.Year,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Status:      in.Status,
		Notes:       strings.TrimSpace(in.Notes),
		RecordDate:  l.now(),
	}
	if err := record.Validate(); err != nil {
		return core.FeeRecord{}, validationErr(err)
	}

	if idx := l.recordSlotLocked(record.StudentID, record.Month, record.Year, ""); idx >= 0 {
		existing := l.records[idx]
		if confirm == nil || !confirm(existing) {
			return core.FeeRecord{}, ErrOverwriteDeclined
		}
		record.ID = existing.ID
		record.RecordDate = existing.RecordDate
		modified := l.now()
		record.LastModified = &modified
		l.records[idx] = record
		slog.InfoContext(ctx, "Fee record overwritten",
			"id", record.ID, "student_id", record.StudentID,
			"month", record.Month, "year", record.Year)
	} else {
		l.records = append(l.records, record)
		slog.InfoContext(ctx, "Fee record added",
			"id", record.ID, "student_id", record.StudentID,
			"month", record.Month, "year", record.Year)
	}

	l.recomputeTotalsLocked(record.StudentID)

	if err := l.save(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// UpdateFeeRecord edits an existing record by id. Unlike the add path, a
// (student, month, year) collision with a different record is rejected
// outright; there is no overwrite option here.
func (l *Ledger) UpdateFeeRecord(ctx context.Context, id string, in FeeInput) (core.FeeRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.recordIndexLocked(id)
	if idx < 0 {
		return core.FeeRecord{}, ErrNotFound
	}

	previous := l.records[idx]
	candidate := previous
	candidate.StudentID = strings.TrimSpace(in.StudentID)
	candidate.Month = in.Month
	candidate.Year = in.Year
	candidate.Amount = in.Amount
	candidate.PaymentDate = in.PaymentDate
	candidate.Status = in.Status
	candidate.Notes = strings.TrimSpace(in.Notes)
	if err := candidate.Validate(); err != nil {
		return core.FeeRecord{}, validationErr(err)
	}
	if l.recordSlotLocked(candidate.StudentID, candidate.Month, candidate.Year, id) >= 0 {
		return core.FeeRecord{}, ErrDuplicateRecord
	}

	modified := l.now()
	candidate.LastModified = &modified
	l.records[idx] = candidate

	// The record may have moved to another student; refresh both sides.
	l.recomputeTotalsLocked(candidate.StudentID)
	if previous.StudentID != candidate.StudentID {
		l.recomputeTotalsLocked(previous.StudentID)
	}

	if err := l.save(ctx); err != nil {
		return candidate, err
	}
	slog.InfoContext(ctx, "Fee record updated", "id", id)
	return candidate, nil
}

// recomputeTotalsLocked refreshes the cached totals on the owning student.
// A dangling student id is tolerated and skipped.
func (l *Ledger) recomputeTotalsLocked(studentID string) {
	idx := l.studentIndexLocked(studentID)
	if idx < 0 {
		return
	}
	paid, due := report.Totals(l.students[idx], l.records)
	l.students[idx].TotalPaid = paid
	l.students[idx].TotalDue = due
}

func (l *Ledger) recordIndexLocked(id string) int {
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// recordSlotLocked finds a record occupying the (student, month, year) slot,
// ignoring excludeID, or -1.
func (l *Ledger) recordSlotLocked(studentID string, month core.Month, year int, excludeID string) int {
	for i, r := range l.records {
		if r.ID == excludeID {
			continue
		}
		if r.StudentID == studentID && r.Month == month && r.Year == year {
			return i
		}
	}
	return -1
}
