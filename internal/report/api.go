package report

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for reports and dashboard stats
type Handler struct {
	repo *Repository
}

// NewHandler creates a new report handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the report routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetReports)

	return r
}

// DashboardRoutes registers the dashboard routes
func (h *Handler) DashboardRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/stats", h.GetDashboardStats)

	return r
}

// GetReports returns the monthly report bundle. ?month=YYYY-MM selects
// the reporting month; it defaults to the current month.
func (h *Handler) GetReports(w http.ResponseWriter, r *http.Request) {
	month := types.MonthOf(time.Now())
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := types.ParseMonth(raw)
		if err != nil {
			writeError(w, errors.BadRequest("invalid month, expected YYYY-MM"))
			return
		}
		month = m
	}

	bundle, err := h.repo.Bundle(r.Context(), month)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

// GetDashboardStats returns the front desk summary
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
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
