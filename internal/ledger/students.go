package ledger

import (
	"context"
	"log/slog"
	"strings"

	"feetracker/internal/core"
)

// StudentInput carries the caller-supplied fields for registering or editing
// a student. Text fields are trimmed before validation.
type StudentInput struct {
	Name          string
	Class         string
	RollNumber    string
	MonthlyFee    core.Money
	ParentContact string
	JoiningDate   core.Date
}

func (in StudentInput) trimmed() StudentInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Class = strings.TrimSpace(in.Class)
	in.RollNumber = strings.TrimSpace(in.RollNumber)
	in.ParentContact = strings.TrimSpace(in.ParentContact)
	return in
}

// AddStudent validates the input, enforces roll number uniqueness, appends
// the new student with zeroed totals and persists.
func (l *Ledger) AddStudent(ctx context.Context, in StudentInput) (core.Student, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	in = in.trimmed()
	student := core.Student{
		ID:            l.newID(),
		Name:          in.Name,
		Class:         in.Class,
		RollNumber:    in.RollNumber,
		MonthlyFee:    in.MonthlyFee,
		ParentContact: in.ParentContact,
		JoiningDate:   in.JoiningDate,
		DateAdded:     l.now(),
	}
	if err := student.Validate(); err != nil {
		return core.Student{}, validationErr(err)
	}
	if l.rollNumberTakenLocked(in.RollNumber, "") {
		return core.Student{}, ErrDuplicateRollNumber
	}

	l.students = append(l.students, student)

	if err := l.save(ctx); err != nil {
		// Mutation stands; the caller is told the write failed.
		return student, err
	}
	slog.InfoContext(ctx, "Student added",
		"id", student.ID,
		"roll_number", student.RollNumber)
	return student, nil
}

// UpdateStudent applies the same validation as AddStudent; the uniqueness
// check excludes the student being edited.
func (l *Ledger) UpdateStudent(ctx context.Context, id string, in StudentInput) (core.Student, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.studentIndexLocked(id)
	if idx < 0 {
		return core.Student{}, ErrNotFound
	}

	in = in.trimmed()
	candidate := l.students[idx]
	candidate.Name = in.Name
	candidate.Class = in.Class
	candidate.RollNumber = in.RollNumber
	candidate.MonthlyFee = in.MonthlyFee
	candidate.ParentContact = in.ParentContact
	candidate.JoiningDate = in.JoiningDate
	if err := candidate.Validate(); err != nil {
		return core.Student{}, validationErr(err)
	}
	if l.rollNumberTakenLocked(in.RollNumber, id) {
		return core.Student{}, ErrDuplicateRollNumber
	}

	modified := l.now()
	candidate.LastModified = &modified
	l.students[idx] = candidate
	// The monthly fee may have changed, which shifts totalDue.
	l.recomputeTotalsLocked(id)

	if err := l.save(ctx); err != nil {
		return l.students[idx], err
	}
	slog.InfoContext(ctx, "Student updated", "id", id)
	return l.students[idx], nil
}

// DeleteStudent removes the student and cascades to every fee record that
// references it. Deleting an unknown id is a no-op, matching the lenient
// filter semantics used elsewhere.
func (l *Ledger) DeleteStudent(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.students[:0]
	removed := false
	for _, s := range l.students {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	l.students = kept

	keptRecords := l.records[:0]
	cascaded := 0
	for _, r := range l.records {
		if r.StudentID == id {
			cascaded++
			continue
		}
		keptRecords = append(keptRecords, r)
	}
	l.records = keptRecords

	if !removed && cascaded == 0 {
		return nil
	}
	if err := l.save(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Student deleted", "id", id, "cascaded_records", cascaded)
	return nil
}

func (l *Ledger) studentIndexLocked(id string) int {
	for i, s := range l.students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) rollNumberTakenLocked(rollNumber, excludeID string) bool {
	for _, s := range l.students {
		if s.RollNumber == rollNumber && s.ID != excludeID {
			return true
		}
	}
	return false
}
