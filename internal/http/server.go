// Package http is the JSON presentation layer over the ledger and the
// derivation functions. Handlers hold no state of their own: every read
// derives from a fresh ledger snapshot.
package http

import (
	"net/http"
	"time"

	"feetracker/internal/ledger"
	"feetracker/internal/services"
)

type Server struct {
	http.Server
	ledger      *ledger.Ledger
	fees        *services.FeeService
	recentLimit int
}

// NewServer wires all routes. recentLimit bounds the recent-activity feed
// when the request does not pass its own limit.
func NewServer(addr string, l *ledger.Ledger, fees *services.FeeService, recentLimit int) *Server {
	s := &Server{
		ledger:      l,
		fees:        fees,
		recentLimit: recentLimit,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/students", s.handleListStudents)
	mux.HandleFunc("POST /api/students", s.handleAddStudent)
	mux.HandleFunc("GET /api/students/{id}", s.handleGetStudent)
	mux.HandleFunc("PUT /api/students/{id}", s.handleUpdateStudent)
	mux.HandleFunc("DELETE /api/students/{id}", s.handleDeleteStudent)
	mux.HandleFunc("GET /api/students/{id}/timeline", s.handleTimeline)

	mux.HandleFunc("GET /api/fees", s.handleListFees)
	mux.HandleFunc("POST /api/fees", s.handleRecordFee)
	mux.HandleFunc("PUT /api/fees/{id}", s.handleUpdateFee)

	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/reports/overview", s.handleOverview)
	mux.HandleFunc("GET /api/reports/outstanding", s.handleOutstanding)
	mux.HandleFunc("GET /api/reports/recent", s.handleRecentActivity)

	mux.HandleFunc("GET /api/export/students.csv", s.handleExportStudentsCSV)
	mux.HandleFunc("GET /api/export/fees.csv", s.handleExportFeesCSV)
	mux.HandleFunc("GET /api/export/backup.json", s.handleExportBackup)
	mux.HandleFunc("GET /api/export/report.json", s.handleExportReport)

	mux.HandleFunc("POST /api/reset", s.handleReset)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        withRequestLogging(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}
