package services

import (
	"context"
	"strings"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// CreateReviewInput is a new review of a doctor
type CreateReviewInput struct {
	DoctorID int64           `json:"doctor"`
	Body     string          `json:"body"`
	Rating   entities.Rating `json:"rating"`
}

// ReviewPatch is a partial review update
type ReviewPatch struct {
	Body   *string          `json:"body,omitempty"`
	Rating *entities.Rating `json:"rating,omitempty"`
}

// ReviewService handles the review ledger
type ReviewService struct {
	repo     repositories.ReviewRepository
	patients repositories.PatientRepository
	doctors  repositories.DoctorRepository
}

// NewReviewService creates a new review service
func NewReviewService(repo repositories.ReviewRepository, patients repositories.PatientRepository, doctors repositories.DoctorRepository) *ReviewService {
	return &ReviewService{repo: repo, patients: patients, doctors: doctors}
}

// Create records a review by the caller's patient record. The same patient
// may review the same doctor any number of times.
func (s *ReviewService) Create(ctx context.Context, caller access.Caller, input CreateReviewInput) (*entities.Review, error) {
	patient, err := callerPatient(ctx, s.patients, caller, "review a doctor")
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, apperrors.NewValidationError("body is required")
	}
	if !input.Rating.Valid() {
		return nil, apperrors.NewValidationError("rating must be one of \"1\", \"2\", \"3\", \"4\", \"5\"")
	}
	if _, err := s.doctors.GetByID(ctx, input.DoctorID); err != nil {
		return nil, mustExist(err, "doctor", input.DoctorID)
	}

	review := &entities.Review{
		ReviewerID:         patient.ID,
		DoctorID:           input.DoctorID,
		Body:               body,
		Rating:             input.Rating,
		CreatedOn:          time.Now().UTC().Truncate(24 * time.Hour),
		ReviewerIdentityID: patient.IdentityID,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// List lists reviews, newest first
func (s *ReviewService) List(ctx context.Context, filter repositories.ReviewFilter, page pagination.Page) ([]*entities.Review, int64, error) {
	if filter.Rating != "" && !filter.Rating.Valid() {
		return nil, 0, apperrors.NewValidationError("rating must be one of \"1\", \"2\", \"3\", \"4\", \"5\"")
	}
	return s.repo.List(ctx, filter, page.Normalize())
}

// Get retrieves a review
func (s *ReviewService) Get(ctx context.Context, id int64) (*entities.Review, error) {
	return s.repo.GetByID(ctx, id)
}

// Update edits body and rating. The reviewer and staff accounts may edit.
func (s *ReviewService) Update(ctx context.Context, caller access.Caller, id int64, patch ReviewPatch) (*entities.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.OwnerOrAdmin(write, review.ReviewerIdentityID, caller) {
		return nil, denied("change this review")
	}

	if patch.Body != nil {
		body := strings.TrimSpace(*patch.Body)
		if body == "" {
			return nil, apperrors.NewValidationError("body may not be blank")
		}
		review.Body = body
	}
	if patch.Rating != nil {
		if !patch.Rating.Valid() {
			return nil, apperrors.NewValidationError("rating must be one of \"1\", \"2\", \"3\", \"4\", \"5\"")
		}
		review.Rating = *patch.Rating
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Only the reviewer may delete it.
func (s *ReviewService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !access.OwnerOrReadOnly(write, review.ReviewerIdentityID, caller) {
		return denied("delete this review")
	}
	return s.repo.Delete(ctx, id)
}
