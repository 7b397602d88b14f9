package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// CreateAppointmentInput is what a patient submits when booking. The
// patient and status are always assigned by the server.
type CreateAppointmentInput struct {
	DoctorID int64                    `json:"doctor"`
	TimeID   int64                    `json:"time"`
	Type     entities.AppointmentType `json:"appointment_type"`
	Symptoms string                   `json:"symptoms"`
}

// AppointmentPatch is a partial update. Nil fields are left unchanged.
type AppointmentPatch struct {
	Type     *entities.AppointmentType   `json:"appointment_type,omitempty"`
	Symptoms *string                     `json:"symptoms,omitempty"`
	TimeID   *int64                      `json:"time,omitempty"`
	Cancel   *bool                       `json:"cancel,omitempty"`
	Status   *entities.AppointmentStatus `json:"appointment_status,omitempty"`
}

// required returns the capabilities needed to apply the patch
func (p AppointmentPatch) required() []access.Capability {
	var caps []access.Capability
	if p.Type != nil || p.Symptoms != nil || p.TimeID != nil {
		caps = append(caps, access.CapEditDetails)
	}
	if p.Cancel != nil {
		caps = append(caps, access.CapToggleCancel)
	}
	if p.Status != nil {
		caps = append(caps, access.CapTransitionStatus)
	}
	return caps
}

// AppointmentService handles appointment booking and lifecycle
type AppointmentService struct {
	repo     repositories.AppointmentRepository
	patients repositories.PatientRepository
	doctors  repositories.DoctorRepository
	times    repositories.AvailableTimeRepository
	eventBus providers.EventBus
	metrics  *observability.Metrics
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	patients repositories.PatientRepository,
	doctors repositories.DoctorRepository,
	times repositories.AvailableTimeRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		times:    times,
		eventBus: eventBus,
		metrics:  metrics,
	}
}

// Book creates a Pending appointment for the caller's patient record.
// Nothing prevents two bookings of the same doctor and time.
func (s *AppointmentService) Book(ctx context.Context, caller access.Caller, input CreateAppointmentInput) (*entities.Appointment, error) {
	patient, err := callerPatient(ctx, s.patients, caller, "book an appointment")
	if err != nil {
		return nil, err
	}

	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("appointment_type must be \"Online\" or \"Offline\"")
	}
	if input.DoctorID <= 0 {
		return nil, apperrors.NewValidationError("doctor is required")
	}
	if input.TimeID <= 0 {
		return nil, apperrors.NewValidationError("time is required")
	}

	doctor, err := s.doctors.GetByID(ctx, input.DoctorID)
	if err != nil {
		return nil, mustExist(err, "doctor", input.DoctorID)
	}
	if _, err := s.times.GetByID(ctx, input.TimeID); err != nil {
		return nil, mustExist(err, "available time", input.TimeID)
	}

	now := time.Now().UTC()
	appointment := &entities.Appointment{
		PatientID:         patient.ID,
		DoctorID:          doctor.ID,
		TimeID:            input.TimeID,
		Type:              input.Type,
		Status:            entities.AppointmentStatusPending,
		Symptoms:          strings.TrimSpace(input.Symptoms),
		Cancel:            false,
		CreatedAt:         now,
		UpdatedAt:         now,
		PatientIdentityID: patient.IdentityID,
		DoctorIdentityID:  doctor.IdentityID,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.RecordAppointmentBooked(ctx, s.metrics, string(appointment.Type))
	publish(ctx, s.eventBus, providers.EventChannelAppointments,
		entities.NewDomainEvent(entities.EventAppointmentCreated, "appointment", appointment.ID, map[string]interface{}{
			"doctor_id":  appointment.DoctorID,
			"patient_id": appointment.PatientID,
			"time_id":    appointment.TimeID,
		}))

	return appointment, nil
}

// List returns the appointments visible to caller. Privileged callers see
// every appointment, everyone else only those they take part in.
func (s *AppointmentService) List(ctx context.Context, caller access.Caller, filter repositories.AppointmentFilter, page pagination.Page) ([]*entities.Appointment, int64, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, 0, err
	}

	filter.VisibleTo = 0
	if !access.IsPrivileged(caller) {
		filter.VisibleTo = caller.IdentityID
	}
	return s.repo.List(ctx, filter, page.Normalize())
}

// Get returns one appointment. Appointments the caller may not view are
// reported as missing.
func (s *AppointmentService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.Appointment, error) {
	appointment, _, err := s.load(ctx, caller, id)
	return appointment, err
}

// load fetches an appointment the caller may view. Callers outside the
// appointment get NotFound so its existence is not revealed; participants
// lacking a capability are refused later with PermissionDenied.
func (s *AppointmentService) load(ctx context.Context, caller access.Caller, id int64) (*entities.Appointment, access.CapabilitySet, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, 0, err
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	caps := access.AppointmentCapabilities(caller, access.Participants{
		PatientIdentityID: appointment.PatientIdentityID,
		DoctorIdentityID:  appointment.DoctorIdentityID,
	})
	if !caps.Has(access.CapView) {
		return nil, 0, apperrors.NewNotFoundError("appointment not found")
	}
	return appointment, caps, nil
}

// Update applies patch. Every touched field group must be covered by the
// caller's capabilities or nothing is written.
func (s *AppointmentService) Update(ctx context.Context, caller access.Caller, id int64, patch AppointmentPatch) (*entities.Appointment, error) {
	appointment, caps, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	for _, c := range patch.required() {
		if !caps.Has(c) {
			return nil, denied(c.String() + " this appointment")
		}
	}

	if patch.Type != nil {
		if !patch.Type.Valid() {
			return nil, apperrors.NewValidationError("appointment_type must be \"Online\" or \"Offline\"")
		}
		appointment.Type = *patch.Type
	}
	if patch.Symptoms != nil {
		appointment.Symptoms = strings.TrimSpace(*patch.Symptoms)
	}
	if patch.TimeID != nil && *patch.TimeID != appointment.TimeID {
		if _, err := s.times.GetByID(ctx, *patch.TimeID); err != nil {
			return nil, mustExist(err, "available time", *patch.TimeID)
		}
		appointment.TimeID = *patch.TimeID
	}
	if patch.Cancel != nil {
		appointment.Cancel = *patch.Cancel
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown appointment_status")
		}
		if !appointment.Status.CanTransitionTo(*patch.Status) {
			return nil, apperrors.NewConflictError(
				"cannot change appointment status from " + string(appointment.Status) + " to " + string(*patch.Status))
		}
		appointment.Status = *patch.Status
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	publish(ctx, s.eventBus, providers.EventChannelAppointments,
		entities.NewDomainEvent(entities.EventAppointmentUpdated, "appointment", appointment.ID, map[string]interface{}{
			"status": string(appointment.Status),
			"cancel": appointment.Cancel,
		}))

	return appointment, nil
}

// Delete removes an appointment
func (s *AppointmentService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	_, caps, err := s.load(ctx, caller, id)
	if err != nil {
		return err
	}
	if !caps.Has(access.CapDelete) {
		return denied("delete this appointment")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.eventBus, providers.EventChannelAppointments,
		entities.NewDomainEvent(entities.EventAppointmentDeleted, "appointment", id, nil))
	return nil
}
