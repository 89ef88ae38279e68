// Package export produces the bulk export formats: tabular CSV dumps and the
// versioned JSON backup/report documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"feetracker/internal/core"
)

// UnknownStudentName labels fee rows whose student reference does not resolve.
const UnknownStudentName = "Unknown"

var studentHeaders = []string{
	"Name", "Class", "Roll Number", "Monthly Fee",
	"Parent Contact", "Joining Date", "Date Added",
}

var feeHeaders = []string{
	"Student Name", "Class", "Month", "Year",
	"Amount", "Payment Date", "Status", "Notes",
}

// WriteStudentsCSV writes the tabular student export.
func WriteStudentsCSV(w io.Writer, students []core.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(studentHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range students {
		row := []string{
			s.Name,
			s.Class,
			s.RollNumber,
			s.MonthlyFee.String(),
			s.ParentContact,
			s.JoiningDate.String(),
			s.DateAdded.Format("2006-01-02"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write student row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFeeRecordsCSV writes the fee record export joined with student name
// and class. Dangling student references export as "Unknown".
func WriteFeeRecordsCSV(w io.Writer, students []core.Student, records []core.FeeRecord) error {
	byID := make(map[string]core.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(feeHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		name, class := UnknownStudentName, UnknownStudentName
		if s, ok := byID[r.StudentID]; ok {
			name, class = s.Name, s.Class
		}
		row := []string{
			name,
			class,
			string(r.Month),
			strconv.Itoa(r.Year),
			r.Amount.String(),
			r.PaymentDate.String(),
			string(r.Status),
			r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write fee row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
