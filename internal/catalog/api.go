package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler provides HTTP handlers for the catalog module
type Handler struct {
	repo *Repository
}

// NewHandler creates a new catalog handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// MedicineRoutes registers the medicine catalog routes
func (h *Handler) MedicineRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMedicines)
	r.Post("/", h.CreateMedicine)
	r.Patch("/{medicineID}", h.UpdateMedicine)
	r.Delete("/{medicineID}", h.DeleteMedicine)

	return r
}

// TreatmentRoutes registers the treatment catalog routes
func (h *Handler) TreatmentRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTreatments)
	r.Post("/", h.CreateTreatment)
	r.Patch("/{treatmentID}", h.UpdateTreatment)
	r.Delete("/{treatmentID}", h.DeleteTreatment)

	return r
}

// --- Medicine handlers ---

// ListMedicines lists the medicine catalog
func (h *Handler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.repo.ListMedicines(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if medicines == nil {
		medicines = []Medicine{}
	}
	writeJSON(w, http.StatusOK, medicines)
}

// CreateMedicine adds a medicine to the catalog
func (h *Handler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req CreateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"name": "name is required",
		}))
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"unit_price": "unit_price must not be negative",
		}))
		return
	}

	m := &Medicine{
		ID:            types.NewID(),
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		TotalEarnings: decimal.Zero,
	}

	if err := h.repo.CreateMedicine(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// UpdateMedicine updates a medicine's catalog fields
func (h *Handler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "medicineID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid medicine ID"))
		return
	}

	m, err := h.repo.GetMedicine(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateMedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			writeError(w, errors.Validation("validation failed", map[string]string{
				"unit_price": "unit_price must not be negative",
			}))
			return
		}
		m.UnitPrice = *req.UnitPrice
	}
	if req.Quantity != nil {
		m.Quantity = *req.Quantity
	}

	if err := h.repo.UpdateMedicine(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// DeleteMedicine removes a medicine from the catalog
func (h *Handler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "medicineID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid medicine ID"))
		return
	}

	if err := h.repo.DeleteMedicine(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Treatment handlers ---

// ListTreatments lists the treatment catalog
func (h *Handler) ListTreatments(w http.ResponseWriter, r *http.Request) {
	treatments, err := h.repo.ListTreatments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if treatments == nil {
		treatments = []Treatment{}
	}
	writeJSON(w, http.StatusOK, treatments)
}

// CreateTreatment adds a treatment to the catalog
func (h *Handler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	var req CreateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"name": "name is required",
		}))
		return
	}
	if req.Price.IsNegative() {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"price": "price must not be negative",
		}))
		return
	}

	t := &Treatment{
		ID:    types.NewID(),
		Name:  req.Name,
		Price: req.Price,
	}

	if err := h.repo.CreateTreatment(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

// UpdateTreatment updates a treatment
func (h *Handler) UpdateTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "treatmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid treatment ID"))
		return
	}

	t, err := h.repo.GetTreatment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var req UpdateTreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			writeError(w, errors.Validation("validation failed", map[string]string{
				"price": "price must not be negative",
			}))
			return
		}
		t.Price = *req.Price
	}

	if err := h.repo.UpdateTreatment(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// DeleteTreatment removes a treatment from the catalog
func (h *Handler) DeleteTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "treatmentID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid treatment ID"))
		return
	}

	if err := h.repo.DeleteTreatment(r.Context(), id); err != nil {
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
