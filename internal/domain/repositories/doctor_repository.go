package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	// Create creates a doctor together with its designation, specialisation
	// and available time links
	Create(ctx context.Context, doctor *entities.Doctor) error

	// GetByID retrieves a doctor with its links
	GetByID(ctx context.Context, id int64) (*entities.Doctor, error)

	// GetByIdentityID retrieves the doctor of an identity
	GetByIdentityID(ctx context.Context, identityID int64) (*entities.Doctor, error)

	// List lists doctors matching filter
	List(ctx context.Context, filter DoctorFilter, page pagination.Page) ([]*entities.Doctor, int64, error)

	// Update updates a doctor and replaces its links
	Update(ctx context.Context, doctor *entities.Doctor) error

	// Delete deletes a doctor
	Delete(ctx context.Context, id int64) error
}

// DoctorFilter defines filters for listing doctors. Specialisation and
// Designation match either the slug or the numeric id.
type DoctorFilter struct {
	Specialisation  string
	Designation     string
	Fee             *int
	AvailableTimeID *int64
	Search          string
}
