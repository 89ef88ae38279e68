package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"feetracker/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps ledger error kinds onto HTTP statuses. A persistence
// failure reports 500 but the mutation already committed in memory; the
// message says so rather than pretending the operation failed.
func writeError(w http.ResponseWriter, err error) {
	var persistErr *ledger.PersistenceError

	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrDuplicateRollNumber),
		errors.Is(err, ledger.ErrDuplicateRecord),
		errors.Is(err, ledger.ErrOverwriteDeclined):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &persistErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "saved in memory but the store rejected the write: " + persistErr.Error(),
		})
	default:
		slog.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
