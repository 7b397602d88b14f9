package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// PatientService defines the interface for patient operations
type PatientService interface {
	List(ctx context.Context, filter repositories.PatientFilter, page pagination.Page) ([]*entities.Patient, int64, error)
	Get(ctx context.Context, id int64) (*entities.Patient, error)
	Me(ctx context.Context, caller access.Caller) (*entities.Patient, error)
	Create(ctx context.Context, caller access.Caller, input services.PatientInput) (*entities.Patient, error)
	Update(ctx context.Context, caller access.Caller, id int64, input services.PatientInput) (*entities.Patient, error)
}

// PatientHandler handles patient requests
type PatientHandler struct {
	service PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.PatientFilter{
		Phone:  strings.TrimSpace(q.Get("phone")),
		Search: q.Get("search"),
	}

	page := pagination.FromQuery(q)
	patients, count, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, patients)
}

// CreatePatient handles POST /api/patients
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var input services.PatientInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	patient, err := h.service.Create(r.Context(), access.CallerFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, patient)
}

// GetMyPatient handles GET /api/patients/me
func (h *PatientHandler) GetMyPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := h.service.Me(r.Context(), access.CallerFromContext(r.Context()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

// GetPatient handles GET /api/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	patient, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

// UpdatePatient handles PATCH /api/patients/{id}
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var input services.PatientInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	patient, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}
