package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
	StatusPartial Status = "Partial"
)

const (
	January   Month = "January"
	February  Month = "February"
	March     Month = "March"
	April     Month = "April"
	May       Month = "May"
	June      Month = "June"
	July      Month = "July"
	August    Month = "August"
	September Month = "September"
	October   Month = "October"
	November  Month = "November"
	December  Month = "December"
)

type (
	// Status is the payment state recorded on a single fee record.
	Status string

	// Month is a calendar month name as persisted in fee records.
	Month string

	// Date is a calendar date without a time-of-day component.
	Date struct {
		time.Time
	}

	// Student is a registered individual with a monthly fee obligation.
	// TotalPaid and TotalDue are caches recomputed from fee records;
	// they are never authoritative.
	Student struct {
		ID            string     `json:"id"`
		Name          string     `json:"name"`
		Class         string     `json:"class"`
		RollNumber    string     `json:"rollNumber"`
		MonthlyFee    Money      `json:"monthlyFee"`
		ParentContact string     `json:"parentContact,omitempty"`
		JoiningDate   Date       `json:"joiningDate"`
		DateAdded     time.Time  `json:"dateAdded"`
		LastModified  *time.Time `json:"lastModified,omitempty"`
		TotalPaid     Money      `json:"totalPaid"`
		TotalDue      Money      `json:"totalDue"`
	}

	// FeeRecord is one month's payment entry for one student. StudentID is a
	// weak reference: it is not guaranteed to resolve, and readers filter
	// dangling records rather than failing.
	FeeRecord struct {
		ID           string     `json:"id"`
		StudentID    string     `json:"studentId"`
		Month        Month      `json:"month"`
		Year         int        `json:"year"`
		Amount       Money      `json:"amount"`
		PaymentDate  Date       `json:"paymentDate"`
		Status       Status     `json:"status"`
		Notes        string     `json:"notes,omitempty"`
		RecordDate   time.Time  `json:"recordDate"`
		LastModified *time.Time `json:"lastModified,omitempty"`
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyClass      = errors.New("empty class")
	ErrEmptyRollNumber = errors.New("empty roll number")
	ErrEmptyStudentID  = errors.New("empty student id")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidYear     = errors.New("invalid year")
)

// Months lists the twelve calendar months in order. Timeline projections and
// monthly aggregates iterate this slice rather than sorting record data.
var Months = []Month{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

// ParseStatus validates a stored or submitted status value. The closed set is
// exactly Paid, Pending, Partial; anything else is a validation failure.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPaid, StatusPending, StatusPartial:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Validate() error {
	_, err := ParseStatus(string(s))
	return err
}

// UnmarshalJSON rejects unknown status values so stale persisted data fails
// at the load boundary instead of propagating silently.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseMonth validates a month name against the twelve calendar months.
func ParseMonth(s string) (Month, error) {
	for _, m := range Months {
		if Month(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

func (m Month) Validate() error {
	_, err := ParseMonth(string(m))
	return err
}

// Index returns the 1-based calendar position of the month, or 0 if unknown.
func (m Month) Index() int {
	for i, known := range Months {
		if m == known {
			return i + 1
		}
	}
	return 0
}

func (m *Month) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMonth(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses the ISO calendar form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks the registration invariants: required text fields non-empty
// after trimming, a non-negative monthly fee and a real joining date.
func (s Student) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(s.Class) == "" {
		return ErrEmptyClass
	}
	if strings.TrimSpace(s.RollNumber) == "" {
		return ErrEmptyRollNumber
	}
	if s.MonthlyFee.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := s.JoiningDate.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks the fee record invariants. StudentID must be present but is
// not required to resolve to a registered student.
func (r FeeRecord) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if err := r.Month.Validate(); err != nil {
		return err
	}
	if r.Year < 1900 || r.Year > 9999 {
		return fmt.Errorf("%w: %d", ErrInvalidYear, r.Year)
	}
	if r.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := r.PaymentDate.Validate(); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}
	return nil
}
