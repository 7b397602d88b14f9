package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ContactRepository defines the interface for contact message operations
type ContactRepository interface {
	Create(ctx context.Context, message *entities.ContactMessage) error
	GetByID(ctx context.Context, id int64) (*entities.ContactMessage, error)
	List(ctx context.Context, page pagination.Page) ([]*entities.ContactMessage, int64, error)
	Delete(ctx context.Context, id int64) error
}
