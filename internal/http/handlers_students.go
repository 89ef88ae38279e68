package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"feetracker/internal/core"
	"feetracker/internal/ledger"
	"feetracker/internal/report"
)

// studentRequest is the submitted form shape. Fee amounts arrive as decimal
// strings, dates as "2006-01-02".
type studentRequest struct {
	Name          string `json:"name"`
	Class         string `json:"class"`
	RollNumber    string `json:"rollNumber"`
	MonthlyFee    string `json:"monthlyFee"`
	ParentContact string `json:"parentContact"`
	JoiningDate   string `json:"joiningDate"`
}

func (req studentRequest) toInput() (ledger.StudentInput, error) {
	fee, err := core.ParseAmount(req.MonthlyFee)
	if err != nil {
		return ledger.StudentInput{}, fmt.Errorf("%w: monthlyFee: %w", ledger.ErrValidation, err)
	}
	joined, err := core.ParseDate(req.JoiningDate)
	if err != nil {
		return ledger.StudentInput{}, fmt.Errorf("%w: joiningDate: %w", ledger.ErrValidation, err)
	}
	return ledger.StudentInput{
		Name:          req.Name,
		Class:         req.Class,
		RollNumber:    req.RollNumber,
		MonthlyFee:    fee,
		ParentContact: req.ParentContact,
		JoiningDate:   joined,
	}, nil
}

// studentView decorates a student with its derived payment state.
type studentView struct {
	core.Student
	PaymentState report.PaymentState `json:"paymentState"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, records := s.ledger.Snapshot()
	views := make([]studentView, 0, len(students))
	for _, student := range students {
		views = append(views, studentView{
			Student:      student,
			PaymentState: report.Classify(student.ID, records),
		})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := s.ledger.Student(r.PathValue("id"))
	if !ok {
		writeError(w, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, studentView{
		Student:      student,
		PaymentState: report.Classify(student.ID, s.ledger.FeeRecords()),
	})
}

func (s *Server) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", ledger.ErrValidation, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := s.ledger.AddStudent(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", ledger.ErrValidation, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	student, err := s.ledger.UpdateStudent(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteStudent(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: year: %w", ledger.ErrValidation, err))
			return
		}
		year = parsed
	}

	id := r.PathValue("id")
	if _, ok := s.ledger.Student(id); !ok {
		writeError(w, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report.Timeline(id, year, s.ledger.FeeRecords()))
}
