package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
)

// IdentityService defines the interface for registration and sessions
type IdentityService interface {
	Register(ctx context.Context, input services.RegisterInput) (*entities.Identity, error)
	VerifyEmail(ctx context.Context, uid, token string) error
	Login(ctx context.Context, username, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	Logout(ctx context.Context, caller access.Caller, refresh string) error
}

// IdentityHandler handles account and token requests
type IdentityHandler struct {
	service IdentityService
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(service IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register handles POST /api/patients/register
func (h *IdentityHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	identity, err := h.service.Register(r.Context(), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, identity)
}

// VerifyEmail handles GET /api/patients/verify-email/{uid}/{token}
func (h *IdentityHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VerifyEmail(r.Context(), r.PathValue("uid"), r.PathValue("token")); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"detail": "Email verified successfully.",
	})
}

// Login handles POST /api/patients/login
func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	pair, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /api/patients/token/refresh
func (h *IdentityHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	token, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"access": token})
}

// Logout handles POST /api/patients/logout
func (h *IdentityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Logout(r.Context(), access.CallerFromContext(r.Context()), req.Refresh); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusResetContent)
}
