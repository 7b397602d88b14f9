package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// DoctorInput carries the writable doctor fields. Catalog links are given
// by id.
type DoctorInput struct {
	Image             *string `json:"image,omitempty"`
	Fee               *int    `json:"fee,omitempty"`
	MeetLink          *string `json:"meet_link,omitempty"`
	DesignationIDs    []int64 `json:"designation,omitempty"`
	SpecialisationIDs []int64 `json:"specialisation,omitempty"`
	AvailableTimeIDs  []int64 `json:"available_time,omitempty"`
}

func (in DoctorInput) apply(doctor *entities.Doctor) error {
	if in.Fee != nil {
		if *in.Fee < 0 {
			return apperrors.NewValidationError("fee must be zero or greater")
		}
		doctor.Fee = *in.Fee
	}
	if in.Image != nil {
		doctor.Image = strings.TrimSpace(*in.Image)
	}
	if in.MeetLink != nil {
		doctor.MeetLink = strings.TrimSpace(*in.MeetLink)
	}
	if in.DesignationIDs != nil {
		doctor.Designations = make([]entities.Designation, 0, len(in.DesignationIDs))
		for _, id := range in.DesignationIDs {
			doctor.Designations = append(doctor.Designations, entities.Designation{ID: id})
		}
	}
	if in.SpecialisationIDs != nil {
		doctor.Specialisations = make([]entities.Specialisation, 0, len(in.SpecialisationIDs))
		for _, id := range in.SpecialisationIDs {
			doctor.Specialisations = append(doctor.Specialisations, entities.Specialisation{ID: id})
		}
	}
	if in.AvailableTimeIDs != nil {
		doctor.AvailableTimes = make([]entities.AvailableTime, 0, len(in.AvailableTimeIDs))
		for _, id := range in.AvailableTimeIDs {
			doctor.AvailableTimes = append(doctor.AvailableTimes, entities.AvailableTime{ID: id})
		}
	}
	return nil
}

// DoctorService handles the doctor registry
type DoctorService struct {
	repo     repositories.DoctorRepository
	profiles repositories.ProfileRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(repo repositories.DoctorRepository, profiles repositories.ProfileRepository) *DoctorService {
	return &DoctorService{repo: repo, profiles: profiles}
}

// Register creates the caller's doctor record. An identity holds at most one.
func (s *DoctorService) Register(ctx context.Context, caller access.Caller, input DoctorInput) (*entities.Doctor, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if input.Fee == nil {
		return nil, apperrors.NewValidationError("fee is required")
	}

	_, err := s.repo.GetByIdentityID(ctx, caller.IdentityID)
	switch {
	case err == nil:
		return nil, apperrors.NewDuplicateError("You already have a doctor account.")
	case !apperrors.Is(err, apperrors.ErrorTypeNotFound):
		return nil, err
	}

	doctor := &entities.Doctor{IdentityID: caller.IdentityID}
	if err := input.apply(doctor); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	if s.profiles != nil {
		if err := s.profiles.SetRole(ctx, caller.IdentityID, entities.RoleDoctor); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("identity_id", caller.IdentityID).Msg("failed to mark profile as doctor")
		}
	}

	return s.repo.GetByID(ctx, doctor.ID)
}

// List lists doctors matching filter
func (s *DoctorService) List(ctx context.Context, filter repositories.DoctorFilter, page pagination.Page) ([]*entities.Doctor, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter, page.Normalize())
}

// Get retrieves a doctor
func (s *DoctorService) Get(ctx context.Context, id int64) (*entities.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes the caller's own doctor record
func (s *DoctorService) Update(ctx context.Context, caller access.Caller, id int64, input DoctorInput) (*entities.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.OwnerOrReadOnly(write, doctor.IdentityID, caller) {
		return nil, denied("change this doctor")
	}

	if err := input.apply(doctor); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the caller's own doctor record
func (s *DoctorService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.OwnerOrReadOnly(write, doctor.IdentityID, caller) {
		return denied("delete this doctor")
	}
	return s.repo.Delete(ctx, id)
}
