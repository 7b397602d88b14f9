package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	Me(ctx context.Context, caller access.Caller) (*entities.UserProfile, error)
	List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.UserProfile, int64, error)
	Get(ctx context.Context, caller access.Caller, id int64) (*entities.UserProfile, error)
	Update(ctx context.Context, caller access.Caller, id int64, patch services.ProfilePatch) (*entities.UserProfile, error)
}

// ProfileHandler handles user profile requests
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ListProfiles handles GET /api/profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query())
	profiles, count, err := h.service.List(r.Context(), access.CallerFromContext(r.Context()), page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, profiles)
}

// GetMyProfile handles GET /api/profiles/me
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Me(r.Context(), access.CallerFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetProfile handles GET /api/profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	profile, err := h.service.Get(r.Context(), access.CallerFromContext(r.Context()), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /api/profiles/{id}
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var patch services.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	profile, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}
