package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"expensed/internal/core"
	"expensed/internal/storage"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func writeValidationError(w http.ResponseWriter, verr *core.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Message: verr.Message,
		Fields:  verr.Fields,
	})
}

// writeStoreError maps persistence failures onto the API error taxonomy:
// unknown id is 404, anything else is a 500 logged for the operator.
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return
	}
	slog.ErrorContext(r.Context(), "Storage operation failed",
		"operation", op,
		"method", r.Method,
		"url", r.URL.Path,
		"error", err)
	writeError(w, http.StatusInternalServerError, "Server error")
}
