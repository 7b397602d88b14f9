package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review and assigns its ID and creation date
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id int64) (*entities.Review, error)

	// List retrieves reviews matching filter, newest first
	List(ctx context.Context, filter ReviewFilter, page pagination.Page) ([]*entities.Review, int64, error)

	// Update updates body and rating
	Update(ctx context.Context, review *entities.Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id int64) error
}

// ReviewFilter defines filters for listing reviews
type ReviewFilter struct {
	DoctorID   *int64
	ReviewerID *int64
	Rating     entities.Rating
}
