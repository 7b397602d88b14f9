package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// CatalogItem is implemented by the reference data entities
type CatalogItem interface {
	entities.Designation | entities.Specialisation | entities.AvailableTime | entities.HospitalService
}

// CatalogRepository defines the operations shared by every reference data
// collection
type CatalogRepository[T CatalogItem] interface {
	// Create creates an item and assigns its ID
	Create(ctx context.Context, item *T) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, id int64) (*T, error)

	// List lists items ordered by ID
	List(ctx context.Context, page pagination.Page) ([]*T, int64, error)

	// Update updates an item
	Update(ctx context.Context, item *T) error

	// Delete deletes an item
	Delete(ctx context.Context, id int64) error
}

type (
	DesignationRepository     = CatalogRepository[entities.Designation]
	SpecialisationRepository  = CatalogRepository[entities.Specialisation]
	AvailableTimeRepository   = CatalogRepository[entities.AvailableTime]
	HospitalServiceRepository = CatalogRepository[entities.HospitalService]
)
