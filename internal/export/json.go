package export

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"feetracker/internal/core"
)

// DumpVersion tags every full JSON backup.
const DumpVersion = "2.0"

// Dump is the full JSON backup of both collections.
type Dump struct {
	Students   []core.Student   `json:"students"`
	FeeRecords []core.FeeRecord `json:"feeRecords"`
	ExportDate time.Time        `json:"exportDate"`
	Version    string           `json:"version"`
}

// ReportSummary heads the full report with aggregate amounts.
type ReportSummary struct {
	TotalStudents int        `json:"totalStudents"`
	TotalRecords  int        `json:"totalRecords"`
	TotalAmount   core.Money `json:"totalAmount"`
	PaidAmount    core.Money `json:"paidAmount"`
}

// AnnotatedRecord is a fee record joined with its student's name and class.
type AnnotatedRecord struct {
	core.FeeRecord
	StudentName  string `json:"studentName,omitempty"`
	StudentClass string `json:"studentClass,omitempty"`
}

// FullReport is the JSON report document: summary plus all records annotated.
type FullReport struct {
	Summary  ReportSummary     `json:"summary"`
	Students []core.Student    `json:"students"`
	Records  []AnnotatedRecord `json:"records"`
}

// NewDump snapshots both collections into a versioned backup document.
func NewDump(students []core.Student, records []core.FeeRecord, now time.Time) Dump {
	return Dump{
		Students:   students,
		FeeRecords: records,
		ExportDate: now,
		Version:    DumpVersion,
	}
}

// WriteDump writes the indented JSON backup.
func WriteDump(w io.Writer, d Dump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadDump parses a backup document, refusing dumps without a version tag.
func ReadDump(r io.Reader) (Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Dump{}, err
	}
	if d.Version == "" {
		return Dump{}, errors.New("dump has no version tag")
	}
	return d, nil
}

// NewFullReport joins records with student names and computes the summary.
func NewFullReport(students []core.Student, records []core.FeeRecord) FullReport {
	byID := make(map[string]core.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}

	var totalAmount, paidAmount core.Money
	annotated := make([]AnnotatedRecord, 0, len(records))
	for _, r := range records {
		totalAmount = totalAmount.Add(r.Amount)
		if r.Status == core.StatusPaid {
			paidAmount = paidAmount.Add(r.Amount)
		}
		row := AnnotatedRecord{FeeRecord: r}
		if s, ok := byID[r.StudentID]; ok {
			row.StudentName = s.Name
			row.StudentClass = s.Class
		}
		annotated = append(annotated, row)
	}

	return FullReport{
		Summary: ReportSummary{
			TotalStudents: len(students),
			TotalRecords:  len(records),
			TotalAmount:   totalAmount,
			PaidAmount:    paidAmount,
		},
		Students: students,
		Records:  annotated,
	}
}

// WriteFullReport writes the indented JSON report.
func WriteFullReport(w io.Writer, rep FullReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
