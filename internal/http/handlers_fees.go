package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"feetracker/internal/core"
	"feetracker/internal/ledger"
)

type feeRequest struct {
	StudentID   string `json:"studentId"`
	Month       string `json:"month"`
	Year        int    `json:"year"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`

	// ConfirmOverwrite is the caller's stand-in for the interactive
	// confirmation dialog: false leaves a colliding record untouched.
	ConfirmOverwrite bool `json:"confirmOverwrite"`
}

func (req feeRequest) toInput() (ledger.FeeInput, error) {
	month, err := core.ParseMonth(req.Month)
	if err != nil {
		return ledger.FeeInput{}, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	status, err := core.ParseStatus(req.Status)
	if err != nil {
		return ledger.FeeInput{}, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return ledger.FeeInput{}, fmt.Errorf("%w: amount: %w", ledger.ErrValidation, err)
	}
	paid, err := core.ParseDate(req.PaymentDate)
	if err != nil {
		return ledger.FeeInput{}, fmt.Errorf("%w: paymentDate: %w", ledger.ErrValidation, err)
	}
	return ledger.FeeInput{
		StudentID:   req.StudentID,
		Month:       month,
		Year:        req.Year,
		Amount:      amount,
		PaymentDate: paid,
		Status:      status,
		Notes:       req.Notes,
	}, nil
}

func (s *Server) handleListFees(w http.ResponseWriter, r *http.Request) {
	records := s.ledger.FeeRecords()
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordDate.After(records[j].RecordDate)
	})
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRecordFee(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", ledger.ErrValidation, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	confirm := ledger.ConfirmOverwrite(nil)
	if req.ConfirmOverwrite {
		confirm = func(core.FeeRecord) bool { return true }
	}

	record, err := s.fees.RecordFee(r.Context(), in, confirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleUpdateFee(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: %w", ledger.ErrValidation, err))
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := s.fees.UpdateFee(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
