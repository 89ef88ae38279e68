package ledger

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"feetracker/internal/core"
	"feetracker/internal/kvstore"
)

// newTestLedger builds a ledger over an in-memory store with a deterministic
// clock and id sequence (id-1, id-2, ...).
func newTestLedger(t *testing.T) (*Ledger, *kvstore.MemoryStore) {
	t.Helper()

	store := kvstore.NewMemoryStore()
	seq := 0
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(store,
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return l, store
}

func validStudentInput() StudentInput {
	return StudentInput{
		Name:        "Asha Verma",
		Class:       "7B",
		RollNumber:  "12",
		MonthlyFee:  core.Money{Cents: 100000},
		JoiningDate: core.NewDate(2024, 1, 10),
	}
}

func validFeeInput(studentID string, month core.Month) FeeInput {
	return FeeInput{
		StudentID:   studentID,
		Month:       month,
		Year:        2024,
		Amount:      core.Money{Cents: 100000},
		PaymentDate: core.NewDate(2024, month.Index(), 5),
		Status:      core.StatusPaid,
	}
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	student, err := l.AddStudent(ctx, validStudentInput())
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	if _, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput(student.ID, core.January), nil); err != nil {
		t.Fatalf("add record: %v", err)
	}

	// A second ledger over the same store sees identical collections.
	reloaded := New(store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	wantStudents, wantRecords := l.Snapshot()
	gotStudents, gotRecords := reloaded.Snapshot()
	if !reflect.DeepEqual(gotStudents, wantStudents) {
		t.Fatalf("students after reload:\ngot  %+v\nwant %+v", gotStudents, wantStudents)
	}
	if !reflect.DeepEqual(gotRecords, wantRecords) {
		t.Fatalf("records after reload:\ngot  %+v\nwant %+v", gotRecords, wantRecords)
	}
}

func TestLoadMissingBlobsStartsEmpty(t *testing.T) {
	l, _ := newTestLedger(t)
	if n := len(l.Students()); n != 0 {
		t.Fatalf("students = %d, want 0", n)
	}
	if n := len(l.FeeRecords()); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}
}

func TestLoadCorruptBlobStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	if err := store.Set(ctx, keyStudents, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Structurally valid JSON with an out-of-set status is equally rejected.
	if err := store.Set(ctx, keyFeeRecords, []byte(`[{"id":"r1","studentId":"s1","month":"January","year":2024,"amount":1000,"paymentDate":"2024-01-05","status":"Waived","recordDate":"2024-01-05T00:00:00Z"}]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l := New(store)
	if err := l.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if n := len(l.Students()); n != 0 {
		t.Fatalf("students = %d, want 0 after corrupt blob", n)
	}
	if n := len(l.FeeRecords()); n != 0 {
		t.Fatalf("records = %d, want 0 after unknown status", n)
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	store.FailWrites = errors.New("disk full")
	student, err := l.AddStudent(ctx, validStudentInput())

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *PersistenceError", err)
	}
	if student.ID == "" {
		t.Fatal("failed save should still return the applied student")
	}
	// The in-memory collection keeps the student.
	if _, ok := l.Student(student.ID); !ok {
		t.Fatal("student missing from memory after failed save")
	}

	// Once the store recovers, the next mutation persists everything.
	store.FailWrites = nil
	if _, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput(student.ID, core.January), nil); err != nil {
		t.Fatalf("add record after recovery: %v", err)
	}
	reloaded := New(store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := reloaded.Student(student.ID); !ok {
		t.Fatal("student not persisted after store recovered")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	student, err := l.AddStudent(ctx, validStudentInput())
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	if _, err := l.AddOrUpdateFeeRecord(ctx, validFeeInput(student.ID, core.January), nil); err != nil {
		t.Fatalf("add record: %v", err)
	}

	if err := l.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if n := len(l.Students()); n != 0 {
		t.Fatalf("students after reset = %d", n)
	}
	if n := len(l.FeeRecords()); n != 0 {
		t.Fatalf("records after reset = %d", n)
	}
	if _, err := store.Get(ctx, keyStudents); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("students blob still present: %v", err)
	}
	if _, err := store.Get(ctx, keyFeeRecords); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("feeRecords blob still present: %v", err)
	}
}

func TestReplaceSkipsInvalidEntriesAndRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	good := core.Student{
		ID:          "s1",
		Name:        "Asha",
		Class:       "7B",
		RollNumber:  "12",
		MonthlyFee:  core.Money{Cents: 100000},
		JoiningDate: core.NewDate(2024, 1, 1),
		DateAdded:   time.Now(),
	}
	bad := core.Student{ID: "s2", Class: "7B", RollNumber: "13"} // no name

	rec := core.FeeRecord{
		ID:          "r1",
		StudentID:   "s1",
		Month:       core.January,
		Year:        2024,
		Amount:      core.Money{Cents: 100000},
		PaymentDate: core.NewDate(2024, 1, 5),
		Status:      core.StatusPaid,
		RecordDate:  time.Now(),
	}
	badRec := rec
	badRec.ID = "r2"
	badRec.Status = "Waived"

	if err := l.Replace(ctx, []core.Student{good, bad}, []core.FeeRecord{rec, badRec}); err != nil {
		t.Fatalf("replace: %v", err)
	}

	students := l.Students()
	if len(students) != 1 || students[0].ID != "s1" {
		t.Fatalf("students after replace = %+v", students)
	}
	if len(l.FeeRecords()) != 1 {
		t.Fatalf("records after replace = %+v", l.FeeRecords())
	}
	if students[0].TotalPaid.Cents != 100000 || students[0].TotalDue.Cents != 0 {
		t.Fatalf("totals = %d/%d, want 100000/0",
			students[0].TotalPaid.Cents, students[0].TotalDue.Cents)
	}
}
