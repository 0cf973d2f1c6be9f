package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"expensed/internal/core"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in core.CreateExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	e, verr := in.Validate()
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	created, err := s.store.Create(r.Context(), e)
	if err != nil {
		writeStoreError(w, r, "create", err)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"id", created.ID,
		"title", created.Title,
		"amount_cents", created.Amount.Cents,
		"category", created.Category)

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, verr := core.ParseListOptions(q.Get("category"), q.Get("sortBy"), q.Get("order"))
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	expenses, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeStoreError(w, r, "list", err)
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.store.SumByCategory(r.Context())
	if err != nil {
		writeStoreError(w, r, "summary", err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	e, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "get", err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	var in core.UpdateExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	patch, verr := in.Validate()
	if verr != nil {
		writeValidationError(w, verr)
		return
	}

	updated, err := s.store.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, r, "update", err)
		return
	}

	slog.InfoContext(r.Context(), "Expense updated", "id", updated.ID)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, "delete", err)
		return
	}

	slog.InfoContext(r.Context(), "Expense deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// expenseID pulls the {id} path value and rejects anything that is not a
// syntactically valid UUID before storage is touched.
func expenseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expense ID format")
		return "", false
	}
	return id, true
}
