package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment and assigns its ID
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment with its participant identities
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)

	// List retrieves appointments matching filter
	List(ctx context.Context, filter AppointmentFilter, page pagination.Page) ([]*entities.Appointment, int64, error)

	// Update writes type, symptoms, time, status and cancel
	Update(ctx context.Context, appointment *entities.Appointment) error

	// Delete deletes an appointment
	Delete(ctx context.Context, id int64) error
}

// AppointmentFilter defines filters for listing appointments. All set
// fields are ANDed.
type AppointmentFilter struct {
	PatientID *int64
	DoctorID  *int64
	Status    entities.AppointmentStatus
	Type      entities.AppointmentType
	Cancel    *bool

	// VisibleTo restricts rows to appointments where this identity is the
	// patient or the doctor. Zero means unrestricted.
	VisibleTo int64
}
