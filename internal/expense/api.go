package expense

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/metrics"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the expense module
type Handler struct {
	repo *Repository
}

// NewHandler creates a new expense handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the expense routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListExpenses)
	r.Post("/", h.CreateExpense)
	r.Patch("/{expenseID}", h.UpdateExpense)
	r.Delete("/{expenseID}", h.DeleteExpense)

	return r
}

// ListExpenses lists expenses, optionally filtered by ?month=YYYY-MM
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	var month *types.Month
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := types.ParseMonth(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid month, expected YYYY-MM"))
			return
		}
		month = &m
	}

	expenses, err := h.repo.List(r.Context(), month)
	if err != nil {
		writeError(w, err)
		return
	}

	if expenses == nil {
		expenses = []Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense records an expense
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.ExpenseType == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"expense_type": "expense_type is required",
		}))
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"amount": "amount must not be negative",
		}))
		return
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	e := &Expense{
		ID:          types.NewID(),
		ExpenseType: req.ExpenseType,
		Description: req.Description,
		Amount:      req.Amount,
		SpentAt:     spentAt,
	}

	if err := h.repo.Create(r.Context(), e); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordExpenseRecorded()
	writeJSON(w, http.StatusCreated, e)
}

// UpdateExpense corrects an expense entry
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "expenseID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid expense ID"))
		return
	}

	e, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.ExpenseType != nil {
		e.ExpenseType = *req.ExpenseType
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			writeError(w, errors.Validation("validation failed", map[string]string{
				"amount": "amount must not be negative",
			}))
			return
		}
		e.Amount = *req.Amount
	}
	if req.SpentAt != nil {
		e.SpentAt = *req.SpentAt
	}

	if err := h.repo.Update(r.Context(), e); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense removes an expense entry
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "expenseID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid expense ID"))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
