package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
)

// ProfileHook provisions the records every identity owns. It runs after an
// identity is created and again after it is verified. Both steps are
// idempotent.
type ProfileHook struct {
	profiles repositories.ProfileRepository
	patients repositories.PatientRepository
}

// NewProfileHook creates a new profile hook
func NewProfileHook(profiles repositories.ProfileRepository, patients repositories.PatientRepository) *ProfileHook {
	return &ProfileHook{profiles: profiles, patients: patients}
}

// Provision ensures the identity has a profile with role patient and a
// patient record. An existing profile keeps its role.
func (h *ProfileHook) Provision(ctx context.Context, identityID int64) error {
	if _, err := h.profiles.EnsureForIdentity(ctx, identityID, entities.RolePatient); err != nil {
		return fmt.Errorf("ensure profile: %w", err)
	}
	if _, err := h.patients.EnsureForIdentity(ctx, identityID); err != nil {
		return fmt.Errorf("ensure patient: %w", err)
	}
	return nil
}
