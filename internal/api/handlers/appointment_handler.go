package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	Book(ctx context.Context, caller access.Caller, input services.CreateAppointmentInput) (*entities.Appointment, error)
	List(ctx context.Context, caller access.Caller, filter repositories.AppointmentFilter, page pagination.Page) ([]*entities.Appointment, int64, error)
	Get(ctx context.Context, caller access.Caller, id int64) (*entities.Appointment, error)
	Update(ctx context.Context, caller access.Caller, id int64, patch services.AppointmentPatch) (*entities.Appointment, error)
	Delete(ctx context.Context, caller access.Caller, id int64) error
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	filter, err := appointmentFilter(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	page := pagination.FromQuery(r.URL.Query())
	appointments, count, err := h.service.List(r.Context(), access.CallerFromContext(r.Context()), filter, page)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithPage(w, r, page, count, appointments)
}

func appointmentFilter(r *http.Request) (repositories.AppointmentFilter, error) {
	q := r.URL.Query()
	var filter repositories.AppointmentFilter
	var err error

	if filter.PatientID, err = queryID(q, "patient_id"); err != nil {
		return filter, err
	}
	if filter.DoctorID, err = queryID(q, "doctor_id"); err != nil {
		return filter, err
	}
	if filter.Cancel, err = queryBool(q, "cancel"); err != nil {
		return filter, err
	}
	if status := entities.AppointmentStatus(q.Get("status")); status != "" {
		if !status.Valid() {
			return filter, apperrors.NewValidationError("unknown status")
		}
		filter.Status = status
	}
	if apptType := entities.AppointmentType(q.Get("type")); apptType != "" {
		if !apptType.Valid() {
			return filter, apperrors.NewValidationError("unknown type")
		}
		filter.Type = apptType
	}
	return filter, nil
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var input services.CreateAppointmentInput
	if err := decodeJSON(w, r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.Book(r.Context(), access.CallerFromContext(r.Context()), input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.Get(r.Context(), access.CallerFromContext(r.Context()), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// UpdateAppointment handles PUT and PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var patch services.AppointmentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.Update(r.Context(), access.CallerFromContext(r.Context()), id, patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
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
