package api

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/frontdesk/internal/billing/domain"
	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/metrics"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler provides HTTP handlers for billing
type Handler struct {
	repo domain.Repository
}

// NewHandler creates a new billing handler
func NewHandler(repo domain.Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the billing routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListBills)
	r.Post("/", h.CreateBill)
	r.Get("/{billID}", h.GetBill)
	r.Post("/{billID}/settle", h.SettleBill)

	return r
}

// CreateBillRequest is the payload for creating a bill
type CreateBillRequest struct {
	PatientID  types.ID               `json:"patient_id"`
	Treatments []domain.TreatmentLine `json:"treatments"`
	Medicines  []domain.MedicineLine  `json:"medicines"`
	PaidAmount decimal.Decimal        `json:"paid_amount"`
}

// SettleBillRequest is the payload for settling an outstanding balance
type SettleBillRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ListBills lists all bills with their line items
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if bills == nil {
		bills = []domain.Bill{}
	}
	writeJSON(w, http.StatusOK, bills)
}

// GetBill retrieves a single bill
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "billID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid bill ID"))
		return
	}

	b, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

// CreateBill creates a bill with treatment and medicine line items. The
// medicine lines also decrement catalog stock.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if len(req.Treatments) == 0 && len(req.Medicines) == 0 {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"items": "at least one treatment or medicine item is required",
		}))
		return
	}

	b, err := domain.NewBill(req.PatientID, req.Treatments, req.Medicines, req.PaidAmount)
	if err != nil {
		writeError(w, errors.BadRequest(err.Error()))
		return
	}

	if err := h.repo.Create(r.Context(), b); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordBillCreated(string(b.Status))
	writeJSON(w, http.StatusCreated, b)
}

// SettleBill records an additional payment against a bill
func (h *Handler) SettleBill(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "billID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid bill ID"))
		return
	}

	var req SettleBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Amount.IsNegative() {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"amount": "amount must not be negative",
		}))
		return
	}

	b, err := h.repo.Settle(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPaymentSettled()
	writeJSON(w, http.StatusOK, b)
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
