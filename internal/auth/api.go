package auth

import (
	"encoding/json"
	"net/http"

	"github.com/clinicdesk/frontdesk/internal/shared/auth"
	"github.com/clinicdesk/frontdesk/internal/shared/config"
	"github.com/clinicdesk/frontdesk/internal/shared/errors"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Handler provides the login endpoint for the front-desk user
type Handler struct {
	cfg config.AuthConfig
}

// NewHandler creates a new auth handler
func NewHandler(cfg config.AuthConfig) *Handler {
	return &Handler{cfg: cfg}
}

// Routes registers the auth routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

// LoginRequest is the request to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Login checks the front-desk credentials and issues a JWT
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, errors.Validation("validation failed", map[string]string{
			"username": "username is required",
			"password": "password is required",
		}))
		return
	}

	if req.Username != h.cfg.AdminUser {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		writeError(w, errors.Unauthorized("invalid credentials"))
		return
	}

	token, expiresAt, err := auth.IssueToken(h.cfg, req.Username, "frontdesk")
	if err != nil {
		writeError(w, errors.Internal(err))
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
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
