package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"feetracker/internal/ledger"
	"feetracker/internal/report"
)

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: year: %w", ledger.ErrValidation, err))
			return
		}
		year = parsed
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"months": report.MonthlyAggregate(s.ledger.FeeRecords(), year),
	})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.OverviewCounts(s.ledger.FeeRecords()))
}

func (s *Server) handleOutstanding(w http.ResponseWriter, r *http.Request) {
	students, records := s.ledger.Snapshot()
	rows := report.OutstandingList(students, records)
	if rows == nil {
		rows = []report.OutstandingStudent{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := s.recentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, fmt.Errorf("%w: limit must be a positive number", ledger.ErrValidation))
			return
		}
		limit = parsed
	}
	students, records := s.ledger.Snapshot()
	writeJSON(w, http.StatusOK, report.RecentActivity(students, records, limit))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
