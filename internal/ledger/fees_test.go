package ledger

import (
	"context"
	"errors"
	"testing"

	"feetracker/internal/core"
)

func TestAddFeeRecordValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	cases := []struct {
		name   string
		mutate func(*FeeInput)
		want   error
	}{
		{"blank student id", func(in *FeeInput) { in.StudentID = "  " }, core.ErrEmptyStudentID},
		{"unknown month", func(in *FeeInput) { in.Month = "Smarch" }, core.ErrInvalidMonth},
		{"year too small", func(in *FeeInput) { in.Year = 1899 }, core.ErrInvalidYear},
		{"negative amount", func(in *FeeInput) { in.Amount = core.Money{Cents: -1} }, core.ErrInvalidAmount},
		{"zero payment date", func(in *FeeInput) { in.PaymentDate = core.Date{} }, core.ErrInvalidDate},
		{"unknown status", func(in *FeeInput) { in.Status = "Waived" }, core.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validFeeInput("s1", core.January)
			tc.mutate(&in)
			_, err := l.AddOrUpdateFeeRecord(ctx, in, nil)
			if !errors.Is(err, ErrValidation) || !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want ErrValidation wrapping %v", err, tc.want)
			}
		})
	}
	if n := len(l.FeeRecords()); n != 0 {
		t.Fatalf("rejected inputs left %d records behind", n)
	}
}

func TestAddFeeRecordUnregisteredStudentAllowed(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	rec, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("ghost", core.January), nil)
	if err != nil {
		t.Fatalf("add for unregistered student: %v", err)
	}
	if rec.StudentID != "ghost" {
		t.Fatalf("studentId = %q", rec.StudentID)
	}
}

func TestAddFeeRecordCollisionDeclined(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	original, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("s1", core.January), nil)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	in := validFeeInput("s1", core.January)
	in.Amount = core.Money{Cents: 50000}

	// nil confirm and declining confirm both abandon the operation.
	if _, err := l.AddOrUpdateFeeRecord(ctx, in, nil); !errors.Is(err, ErrOverwriteDeclined) {
		t.Fatalf("nil confirm err = %v, want ErrOverwriteDeclined", err)
	}
	decline := func(core.FeeRecord) bool { return false }
	if _, err := l.AddOrUpdateFeeRecord(ctx, in, decline); !errors.Is(err, ErrOverwriteDeclined) {
		t.Fatalf("declined err = %v, want ErrOverwriteDeclined", err)
	}

	records := l.FeeRecords()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0].Amount != original.Amount {
		t.Fatal("declined overwrite changed the existing record")
	}
}

func TestAddFeeRecordCollisionConfirmedMergesInPlace(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	original, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("s1", core.January), nil)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	in := validFeeInput("s1", core.January)
	in.Amount = core.Money{Cents: 50000}
	in.Status = core.StatusPartial
	in.Notes = "half now"

	var seen core.FeeRecord
	confirm := func(existing core.FeeRecord) bool {
		seen = existing
		return true
	}
	merged, err := l.AddOrUpdateFeeRecord(ctx, in, confirm)
	if err != nil {
		t.Fatalf("confirmed add: %v", err)
	}
	if seen.ID != original.ID {
		t.Fatalf("confirm saw record %q, want %q", seen.ID, original.ID)
	}
	// Identity and first-entry timestamp survive the merge.
	if merged.ID != original.ID {
		t.Fatalf("id = %q, want %q", merged.ID, original.ID)
	}
	if !merged.RecordDate.Equal(original.RecordDate) {
		t.Fatal("recordDate not preserved on merge")
	}
	if merged.LastModified == nil {
		t.Fatal("merge must set lastModified")
	}
	if merged.Amount.Cents != 50000 || merged.Status != core.StatusPartial || merged.Notes != "half now" {
		t.Fatalf("merged fields = %+v", merged)
	}
	if n := len(l.FeeRecords()); n != 1 {
		t.Fatalf("records = %d, want 1", n)
	}
}

func TestSameMonthDifferentYearDoesNotCollide(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	if _, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("s1", core.January), nil); err != nil {
		t.Fatalf("2024 add: %v", err)
	}
	in := validFeeInput("s1", core.January)
	in.Year = 2025
	if _, err := l.AddOrUpdateFeeRecord(ctx, in, nil); err != nil {
		t.Fatalf("2025 add collided: %v", err)
	}
	if n := len(l.FeeRecords()); n != 2 {
		t.Fatalf("records = %d, want 2", n)
	}
}

func TestUpdateFeeRecord(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	jan, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("s1", core.January), nil)
	if err != nil {
		t.Fatalf("add jan: %v", err)
	}
	if _, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput("s1", core.February), nil); err != nil {
		t.Fatalf("add feb: %v", err)
	}

	// Moving january onto february's slot is rejected outright.
	in := validFeeInput("s1", core.February)
	if _, err := l.UpdateFeeRecord(ctx, jan.ID, in); !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("err = %v, want ErrDuplicateRecord", err)
	}

	// Editing in place, keeping the slot, is fine.
	in = validFeeInput("s1", core.January)
	in.Status = core.StatusPartial
	in.Amount = core.Money{Cents: 40000}
	updated, err := l.UpdateFeeRecord(ctx, jan.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != core.StatusPartial || updated.Amount.Cents != 40000 {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.LastModified == nil {
		t.Fatal("update must set lastModified")
	}

	if _, err := l.UpdateFeeRecord(ctx, "missing", validFeeInput("s1", core.March)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTotalsRecomputedOnMutation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	student, err := l.AddStudent(ctx, validStudentInput())
	if err != nil {
		t.Fatalf("add student: %v", err)
	}

	add := func(month core.Month, cents int64, status core.Status) core.FeeRecord {
		t.Helper()
		in := validFeeInput(student.ID, month)
		in.Amount = core.Money{Cents: cents}
		in.Status = status
		rec, err := l.AddOrUpdateFeeRecord(ctx, in, nil)
		if err != nil {
			t.Fatalf("add %s: %v", month, err)
		}
		return rec
	}

	add(core.January, 100000, core.StatusPaid)
	add(core.February, 100000, core.StatusPending)
	march := add(core.March, 90000, core.StatusPaid)

	got, _ := l.Student(student.ID)
	if got.TotalPaid.Cents != 190000 {
		t.Fatalf("totalPaid = %d, want 190000", got.TotalPaid.Cents)
	}
	if got.TotalDue.Cents != 110000 {
		t.Fatalf("totalDue = %d, want 110000", got.TotalDue.Cents)
	}

	// Re-statusing march to Pending drops it from totalPaid.
	in := validFeeInput(student.ID, core.March)
	in.Amount = core.Money{Cents: 90000}
	in.Status = core.StatusPending
	if _, err := l.UpdateFeeRecord(ctx, march.ID, in); err != nil {
		t.Fatalf("update march: %v", err)
	}
	got, _ = l.Student(student.ID)
	if got.TotalPaid.Cents != 100000 {
		t.Fatalf("totalPaid after update = %d, want 100000", got.TotalPaid.Cents)
	}
	if got.TotalDue.Cents != 200000 {
		t.Fatalf("totalDue after update = %d, want 200000", got.TotalDue.Cents)
	}
}

func TestUpdateFeeRecordMovingStudentRefreshesBothTotals(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	first, err := l.AddStudent(ctx, validStudentInput())
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	secondIn := validStudentInput()
	secondIn.RollNumber = "13"
	second, err := l.AddStudent(ctx, secondIn)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	rec, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput(first.ID, core.January), nil)
	if err != nil {
		t.Fatalf("add record: %v", err)
	}

	in := validFeeInput(second.ID, core.January)
	if _, err := l.UpdateFeeRecord(ctx, rec.ID, in); err != nil {
		t.Fatalf("move record: %v", err)
	}

	gotFirst, _ := l.Student(first.ID)
	if gotFirst.TotalPaid.Cents != 0 || gotFirst.TotalDue.Cents != 0 {
		t.Fatalf("first totals = %d/%d, want 0/0", gotFirst.TotalPaid.Cents, gotFirst.TotalDue.Cents)
	}
	gotSecond, _ := l.Student(second.ID)
	if gotSecond.TotalPaid.Cents != 100000 || gotSecond.TotalDue.Cents != 0 {
		t.Fatalf("second totals = %d/%d, want 100000/0", gotSecond.TotalPaid.Cents, gotSecond.TotalDue.Cents)
	}
}
