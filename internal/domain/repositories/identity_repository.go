package repositories

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// IdentityRepository defines the interface for identity data operations
type IdentityRepository interface {
	// Create creates a new identity and assigns its ID
	Create(ctx context.Context, identity *entities.Identity) error

	// GetByID retrieves an identity by ID
	GetByID(ctx context.Context, id int64) (*entities.Identity, error)

	// GetByUsername retrieves an identity by username
	GetByUsername(ctx context.Context, username string) (*entities.Identity, error)

	// UpdateNames updates first name, last name and email
	UpdateNames(ctx context.Context, identity *entities.Identity) error

	// SetActive flips the active flag
	SetActive(ctx context.Context, id int64, active bool) error

	// SetStaff flips the staff flag
	SetStaff(ctx context.Context, id int64, staff bool) error
}

// ProfileRepository defines the interface for user profile operations
type ProfileRepository interface {
	// EnsureForIdentity creates the profile with role when none exists and
	// returns the stored profile either way
	EnsureForIdentity(ctx context.Context, identityID int64, role entities.Role) (*entities.UserProfile, error)

	// GetByID retrieves a profile by ID
	GetByID(ctx context.Context, id int64) (*entities.UserProfile, error)

	// GetByIdentityID retrieves the profile of an identity
	GetByIdentityID(ctx context.Context, identityID int64) (*entities.UserProfile, error)

	// List lists profiles, optionally restricted to one identity
	List(ctx context.Context, filter ProfileFilter, page pagination.Page) ([]*entities.UserProfile, int64, error)

	// Update updates the personal details of a profile. The role is not written.
	Update(ctx context.Context, profile *entities.UserProfile) error

	// SetRole changes the role of a profile
	SetRole(ctx context.Context, identityID int64, role entities.Role) error
}

// ProfileFilter defines filters for listing profiles
type ProfileFilter struct {
	IdentityID *int64
}
