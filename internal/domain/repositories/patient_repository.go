package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// Create creates a patient. A second patient for the same identity is a
	// duplicate error.
	Create(ctx context.Context, patient *entities.Patient) error

	// EnsureForIdentity creates the patient when none exists and returns it
	EnsureForIdentity(ctx context.Context, identityID int64) (*entities.Patient, error)

	// GetByID retrieves a patient by ID
	GetByID(ctx context.Context, id int64) (*entities.Patient, error)

	// GetByIdentityID retrieves the patient of an identity
	GetByIdentityID(ctx context.Context, identityID int64) (*entities.Patient, error)

	// List lists patients
	List(ctx context.Context, filter PatientFilter, page pagination.Page) ([]*entities.Patient, int64, error)

	// Update updates phone and image
	Update(ctx context.Context, patient *entities.Patient) error
}

// PatientFilter defines filters for listing patients
type PatientFilter struct {
	Phone  string
	Search string
}
