// Package report holds the read-side derivations over ledger snapshots.
// Every function is pure: it takes explicit collection slices, mutates
// nothing and can be called at any read point.
package report

import (
	"sort"

	"feetracker/internal/core"
)

// PaymentState classifies a student's overall standing from their records.
type PaymentState string

const (
	StatePending  PaymentState = "pending"
	StatePartial  PaymentState = "partial"
	StateUpToDate PaymentState = "up-to-date"
)

// MonthSummary aggregates one month's records within a year. Pending folds in
// Partial amounts: the bucket means "not fully paid", not status == Pending.
type MonthSummary struct {
	Month   core.Month `json:"month"`
	Total   core.Money `json:"total"`
	Paid    core.Money `json:"paid"`
	Pending core.Money `json:"pending"`
}

// StatusBucket is a count plus amount sum for one status value.
type StatusBucket struct {
	Count  int        `json:"count"`
	Amount core.Money `json:"amount"`
}

// Overview groups all records by their three status values, across years.
type Overview struct {
	Paid    StatusBucket `json:"paid"`
	Pending StatusBucket `json:"pending"`
	Partial StatusBucket `json:"partial"`
}

// OutstandingStudent is one row of the outstanding-fees report.
type OutstandingStudent struct {
	Student       core.Student `json:"student"`
	PaidAmount    core.Money   `json:"paidAmount"`
	PendingCount  int          `json:"pendingCount"`
	PendingAmount core.Money   `json:"pendingAmount"`
}

// Activity pairs a fee record with its student's display name for the
// recent-activity feed.
type Activity struct {
	Record      core.FeeRecord `json:"record"`
	StudentName string         `json:"studentName"`
}

// TimelineEntry is one month of a student's fixed twelve-month projection.
// Record is nil for months with no entry and State is then "no-record".
type TimelineEntry struct {
	Month  core.Month      `json:"month"`
	Year   int             `json:"year"`
	Record *core.FeeRecord `json:"record,omitempty"`
	State  string          `json:"state"`
}

// UnknownStudentName is the placeholder used when a record's student id does
// not resolve.
const UnknownStudentName = "Unknown Student"

// DefaultRecentLimit bounds the recent-activity feed when no limit is given.
const DefaultRecentLimit = 5

// Totals derives the cached per-student amounts. totalPaid sums Paid record
// amounts; totalDue charges one monthlyFee per recorded month, not per
// calendar month elapsed since joining. A student with three recorded months
// owes three month-charges regardless of gaps.
func Totals(student core.Student, records []core.FeeRecord) (paid, due core.Money) {
	count := 0
	for _, r := range records {
		if r.StudentID != student.ID {
			continue
		}
		count++
		if r.Status == core.StatusPaid {
			paid = paid.Add(r.Amount)
		}
	}
	due = student.MonthlyFee.Mul(count).Sub(paid)
	return paid, due
}

// Classify derives the student's overall payment state. Pending dominates
// partial regardless of insertion order.
func Classify(studentID string, records []core.FeeRecord) PaymentState {
	hasPartial := false
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		switch r.Status {
		case core.StatusPending:
			return StatePending
		case core.StatusPartial:
			hasPartial = true
		}
	}
	if hasPartial {
		return StatePartial
	}
	return StateUpToDate
}

// MonthlyAggregate groups the year's records by month in calendar order.
// Months with no records are omitted.
func MonthlyAggregate(records []core.FeeRecord, year int) []MonthSummary {
	byMonth := make(map[core.Month]*MonthSummary)
	for _, r := range records {
		if r.Year != year {
			continue
		}
		s, ok := byMonth[r.Month]
		if !ok {
			s = &MonthSummary{Month: r.Month}
			byMonth[r.Month] = s
		}
		s.Total = s.Total.Add(r.Amount)
		if r.Status == core.StatusPaid {
			s.Paid = s.Paid.Add(r.Amount)
		} else {
			s.Pending = s.Pending.Add(r.Amount)
		}
	}

	out := make([]MonthSummary, 0, len(byMonth))
	for _, m := range core.Months {
		if s, ok := byMonth[m]; ok {
			out = append(out, *s)
		}
	}
	return out
}

// OverviewCounts tallies records by status across all years.
func OverviewCounts(records []core.FeeRecord) Overview {
	var o Overview
	for _, r := range records {
		switch r.Status {
		case core.StatusPaid:
			o.Paid.Count++
			o.Paid.Amount = o.Paid.Amount.Add(r.Amount)
		case core.StatusPending:
			o.Pending.Count++
			o.Pending.Amount = o.Pending.Amount.Add(r.Amount)
		case core.StatusPartial:
			o.Partial.Count++
			o.Partial.Amount = o.Partial.Amount.Add(r.Amount)
		}
	}
	return o
}

// OutstandingList reports every student with at least one non-Paid record.
// Students whose records are all Paid (or who have none) are excluded
// entirely rather than returned with zero values.
func OutstandingList(students []core.Student, records []core.FeeRecord) []OutstandingStudent {
	var out []OutstandingStudent
	for _, student := range students {
		var row OutstandingStudent
		row.Student = student
		for _, r := range records {
			if r.StudentID != student.ID {
				continue
			}
			if r.Status == core.StatusPaid {
				row.PaidAmount = row.PaidAmount.Add(r.Amount)
			} else {
				row.PendingCount++
				row.PendingAmount = row.PendingAmount.Add(r.Amount)
			}
		}
		if row.PendingCount > 0 {
			out = append(out, row)
		}
	}
	return out
}

// RecentActivity returns the newest records by recordDate, truncated to
// limit, each paired with the student's display name. A dangling student id
// yields the "Unknown Student" placeholder rather than an error.
func RecentActivity(students []core.Student, records []core.FeeRecord, limit int) []Activity {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	sorted := append([]core.FeeRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordDate.After(sorted[j].RecordDate)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.Name
	}

	out := make([]Activity, 0, len(sorted))
	for _, r := range sorted {
		name, ok := names[r.StudentID]
		if !ok {
			name = UnknownStudentName
		}
		out = append(out, Activity{Record: r, StudentName: name})
	}
	return out
}

// Timeline projects a student's year onto the twelve calendar months. The
// result always has exactly twelve entries, one per month, whether the
// student has zero, one or twelve records for that year.
func Timeline(studentID string, year int, records []core.FeeRecord) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(core.Months))
	for _, month := range core.Months {
		entry := TimelineEntry{Month: month, Year: year, State: "no-record"}
		for i := range records {
			r := records[i]
			if r.StudentID == studentID && r.Month == month && r.Year == year {
				entry.Record = &r
				entry.State = statusState(r.Status)
				break
			}
		}
		out = append(out, entry)
	}
	return out
}

func statusState(s core.Status) string {
	switch s {
	case core.StatusPaid:
		return "paid"
	case core.StatusPending:
		return "pending"
	case core.StatusPartial:
		return "partial"
	}
	return "no-record"
}
