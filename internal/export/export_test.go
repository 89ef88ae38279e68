package export

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"strings"
	"testing"
	"time"

	"feetracker/internal/core"
)

var (
	exportStudents = []core.Student{
		{
			ID:            "s1",
			Name:          "Asha Verma",
			Class:         "7B",
			RollNumber:    "12",
			MonthlyFee:    core.Money{Cents: 100000},
			ParentContact: "98765",
			JoiningDate:   core.NewDate(2024, 1, 10),
			DateAdded:     time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		},
	}
	exportRecords = []core.FeeRecord{
		{
			ID:          "r1",
			StudentID:   "s1",
			Month:       core.January,
			Year:        2024,
			Amount:      core.Money{Cents: 100000},
			PaymentDate: core.NewDate(2024, 1, 5),
			Status:      core.StatusPaid,
			Notes:       "cash",
			RecordDate:  time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          "r2",
			StudentID:   "ghost",
			Month:       core.February,
			Year:        2024,
			Amount:      core.Money{Cents: 50000},
			PaymentDate: core.NewDate(2024, 2, 5),
			Status:      core.StatusPartial,
			RecordDate:  time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC),
		},
	}
)

func TestWriteStudentsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStudentsCSV(&buf, exportStudents); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	wantHeader := []string{"Name", "Class", "Roll Number", "Monthly Fee", "Parent Contact", "Joining Date", "Date Added"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v", rows[0])
	}
	want := []string{"Asha Verma", "7B", "12", "1000.00", "98765", "2024-01-10", "2024-01-10"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row = %v, want %v", rows[1], want)
	}
}

func TestWriteFeeRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFeeRecordsCSV(&buf, exportStudents, exportRecords); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	wantHeader := []string{"Student Name", "Class", "Month", "Year", "Amount", "Payment Date", "Status", "Notes"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v", rows[0])
	}
	joined := []string{"Asha Verma", "7B", "January", "2024", "1000.00", "2024-01-05", "Paid", "cash"}
	if !reflect.DeepEqual(rows[1], joined) {
		t.Fatalf("joined row = %v, want %v", rows[1], joined)
	}
	dangling := []string{"Unknown", "Unknown", "February", "2024", "500.00", "2024-02-05", "Partial", ""}
	if !reflect.DeepEqual(rows[2], dangling) {
		t.Fatalf("dangling row = %v, want %v", rows[2], dangling)
	}
}

func TestDumpRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	dump := NewDump(exportStudents, exportRecords, now)
	if dump.Version != "2.0" {
		t.Fatalf("version = %q", dump.Version)
	}

	var buf bytes.Buffer
	if err := WriteDump(&buf, dump); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadDump(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Version != DumpVersion || !got.ExportDate.Equal(now) {
		t.Fatalf("got version %q date %v", got.Version, got.ExportDate)
	}
	if len(got.Students) != 1 || len(got.FeeRecords) != 2 {
		t.Fatalf("collections = %d/%d", len(got.Students), len(got.FeeRecords))
	}
	if got.Students[0].MonthlyFee.Cents != 100000 {
		t.Fatalf("monthlyFee = %d", got.Students[0].MonthlyFee.Cents)
	}
}

func TestReadDumpRejectsMissingVersion(t *testing.T) {
	_, err := ReadDump(strings.NewReader(`{"students":[],"feeRecords":[]}`))
	if err == nil {
		t.Fatal("unversioned dump accepted")
	}
}

func TestNewFullReport(t *testing.T) {
	rep := NewFullReport(exportStudents, exportRecords)

	if rep.Summary.TotalStudents != 1 || rep.Summary.TotalRecords != 2 {
		t.Fatalf("summary counts = %+v", rep.Summary)
	}
	if rep.Summary.TotalAmount.Cents != 150000 {
		t.Fatalf("totalAmount = %d", rep.Summary.TotalAmount.Cents)
	}
	if rep.Summary.PaidAmount.Cents != 100000 {
		t.Fatalf("paidAmount = %d", rep.Summary.PaidAmount.Cents)
	}

	if rep.Records[0].StudentName != "Asha Verma" || rep.Records[0].StudentClass != "7B" {
		t.Fatalf("annotation = %+v", rep.Records[0])
	}
	if rep.Records[1].StudentName != "" {
		t.Fatalf("dangling record annotated: %+v", rep.Records[1])
	}
}
