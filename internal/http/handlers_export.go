package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"feetracker/internal/export"
)

func (s *Server) handleExportStudentsCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="students.csv"`)
	if err := export.WriteStudentsCSV(w, s.ledger.Students()); err != nil {
		slog.ErrorContext(r.Context(), "Students CSV export failed", "error", err)
	}
}

func (s *Server) handleExportFeesCSV(w http.ResponseWriter, r *http.Request) {
	students, records := s.ledger.Snapshot()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fee_records.csv"`)
	if err := export.WriteFeeRecordsCSV(w, students, records); err != nil {
		slog.ErrorContext(r.Context(), "Fee records CSV export failed", "error", err)
	}
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	students, records := s.ledger.Snapshot()
	now := time.Now()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="student_fee_data_%s.json"`, now.Format("2006-01-02")))
	if err := export.WriteDump(w, export.NewDump(students, records, now)); err != nil {
		slog.ErrorContext(r.Context(), "Backup export failed", "error", err)
	}
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	students, records := s.ledger.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="full_report_%s.json"`, time.Now().Format("2006-01-02")))
	if err := export.WriteFullReport(w, export.NewFullReport(students, records)); err != nil {
		slog.ErrorContext(r.Context(), "Full report export failed", "error", err)
	}
}
