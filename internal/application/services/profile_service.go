package services

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ProfilePatch is a partial profile update. The role is not part of it.
type ProfilePatch struct {
	Bio            *string `json:"bio,omitempty"`
	Address        *string `json:"address,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
}

func (p ProfilePatch) touchesIdentity() bool {
	return p.FirstName != nil || p.LastName != nil || p.Email != nil
}

// ProfileService handles user profiles
type ProfileService struct {
	profiles   repositories.ProfileRepository
	identities repositories.IdentityRepository
}

// NewProfileService creates a new profile service
func NewProfileService(profiles repositories.ProfileRepository, identities repositories.IdentityRepository) *ProfileService {
	return &ProfileService{profiles: profiles, identities: identities}
}

// Me returns the caller's profile, creating it when missing
func (s *ProfileService) Me(ctx context.Context, caller access.Caller) (*entities.UserProfile, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.profiles.EnsureForIdentity(ctx, caller.IdentityID, entities.RolePatient)
}

// List lists every profile for staff accounts and only the caller's own
// for everyone else
func (s *ProfileService) List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.UserProfile, int64, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, 0, err
	}
	var filter repositories.ProfileFilter
	if !access.AdminOnly(caller) {
		id := caller.IdentityID
		filter.IdentityID = &id
	}
	return s.profiles.List(ctx, filter, page.Normalize())
}

// Get retrieves a profile visible to caller
func (s *ProfileService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.UserProfile, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.IdentityID != caller.IdentityID && !access.AdminOnly(caller) {
		return nil, apperrors.NewNotFoundError("profile not found")
	}
	return profile, nil
}

// Update changes profile details and the owning identity's names and email
func (s *ProfileService) Update(ctx context.Context, caller access.Caller, id int64, patch ProfilePatch) (*entities.UserProfile, error) {
	profile, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !access.OwnerOrAdmin(write, profile.IdentityID, caller) {
		return nil, denied("change this profile")
	}

	if patch.Bio != nil {
		profile.Bio = strings.TrimSpace(*patch.Bio)
	}
	if patch.Address != nil {
		profile.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.ProfilePicture != nil {
		profile.ProfilePicture = strings.TrimSpace(*patch.ProfilePicture)
	}
	if patch.DateOfBirth != nil {
		if *patch.DateOfBirth == "" {
			profile.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *patch.DateOfBirth)
			if err != nil {
				return nil, apperrors.NewValidationError("date_of_birth must be formatted YYYY-MM-DD")
			}
			profile.DateOfBirth = &dob
		}
	}

	if patch.touchesIdentity() {
		identity, err := s.identities.GetByID(ctx, profile.IdentityID)
		if err != nil {
			return nil, err
		}
		if patch.FirstName != nil {
			identity.FirstName = strings.TrimSpace(*patch.FirstName)
		}
		if patch.LastName != nil {
			identity.LastName = strings.TrimSpace(*patch.LastName)
		}
		if patch.Email != nil {
			email, err := normalizeEmail(*patch.Email)
			if err != nil {
				return nil, err
			}
			identity.Email = email
		}
		if err := s.identities.UpdateNames(ctx, identity); err != nil {
			return nil, err
		}
		profile.Identity = identity
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// normalizeEmail accepts a bare address or an empty string
func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperrors.NewValidationError("Enter a valid email address.")
	}
	at := strings.LastIndex(raw, "@")
	return raw[:at] + strings.ToLower(raw[at:]), nil
}
