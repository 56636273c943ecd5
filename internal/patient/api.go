package patient

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/clinicdesk/frontdesk/internal/shared/metrics"
	"github.com/clinicdesk/frontdesk/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the patient module
type Handler struct {
	repo *Repository
}

// NewHandler creates a new patient handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the patient and visit routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", h.ListPatients)
		r.Post("/", h.RegisterPatient)
		r.Get("/{patientID}", h.GetPatient)
	})

	r.Route("/visits", func(r chi.Router) {
		r.Post("/", h.RecordVisit)
	})

	return r
}

// ListPatients lists all patients with their visit history
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if patients == nil {
		patients = []Patient{}
	}
	writeJSON(w, http.StatusOK, patients)
}

// GetPatient gets one patient with visits
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid patient ID"))
		return
	}

	p, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// RegisterPatient registers a patient, with an optional initial visit
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req RegisterPatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" || req.Phone == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"name":  "name is required",
			"phone": "phone is required",
		}))
		return
	}

	now := time.Now()
	p := &Patient{
		ID:           types.NewID(),
		Name:         req.Name,
		Phone:        req.Phone,
		RegisteredAt: now,
		Visits:       []Visit{},
	}

	var initial *Visit
	if req.HasInitialVisit() {
		initial = &Visit{
			ID:           types.NewID(),
			PatientID:    p.ID,
			VisitedAt:    now,
			Complaints:   req.Complaints,
			Diagnosis:    req.Diagnosis,
			Treatment:    req.Treatment,
			Prescription: req.Prescription,
		}
	}

	if err := h.repo.Create(r.Context(), p, initial); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordPatientRegistered()
	if initial != nil {
		metrics.RecordVisitRecorded()
	}

	writeJSON(w, http.StatusCreated, p)
}

// RecordVisit records a visit for an existing patient
func (h *Handler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	var req RecordVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.PatientID.IsZero() || req.Complaints == "" || req.Diagnosis == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"patient_id": "patient_id is required",
			"complaints": "complaints is required",
			"diagnosis":  "diagnosis is required",
		}))
		return
	}

	v := &Visit{
		ID:           types.NewID(),
		PatientID:    req.PatientID,
		VisitedAt:    time.Now(),
		Complaints:   req.Complaints,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
	}

	if err := h.repo.CreateVisit(r.Context(), v); err != nil {
		writeError(w, err)
		return
	}

	metrics.RecordVisitRecorded()

	writeJSON(w, http.StatusCreated, v)
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
