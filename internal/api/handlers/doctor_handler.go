package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// DoctorService defines the interface for doctor operations
type DoctorService interface {
	Register(ctx context.Context, caller access.Caller, input services.DoctorInput) (*entities.Doctor, error)
	List(ctx context.Context, filter repositories.DoctorFilter, page pagination.Page) ([]*entities.Doctor, int64, error)
	Get(ctx context.Context, id int64) (*entities.Doctor, error)
	Update(ctx context.Context, caller access.Caller, id int64, input services.DoctorInput) (*entities.Doctor, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

// DoctorHandler handles doctor requests
type DoctorHandler struct {
	service DoctorService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.DoctorFilter{
		Specialisation: strings.TrimSpace(q.Get("specialisation")),
		Designation:    strings.TrimSpace(q.Get("designation")),
		Search:         q.Get("search"),
	}

	if raw := strings.TrimSpace(q.Get("fee")); raw != "" {
		fee, err := strconv.Atoi(raw)
		if err != nil {
			respondWithAppError(w, r, apperrors.NewValidationError("fee must be a whole number"))
			return
		}
		filter.Fee = &fee
	}

	timeID, err := queryID(q, "available_time")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	filter.AvailableTimeID = timeID

	page := pagination.FromQuery(q)
	doctors, count, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, doctors)
}

// RegisterDoctor handles POST /api/doctors
func (h *DoctorHandler) RegisterDoctor(w http.ResponseWriter, r *http.Request) {
	var input services.DoctorInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	doctor, err := h.service.Register(r.Context(), access.CallerFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, doctor)
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	doctor, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}

// UpdateDoctor handles PUT and PATCH /api/doctors/{id}
func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var input services.DoctorInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	doctor, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}

// DeleteDoctor handles DELETE /api/doctors/{id}
func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), access.CallerFromContext(r.Context()), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
