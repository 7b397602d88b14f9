package services

import (
	"context"
	"strings"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// PatientInput carries the writable patient fields
type PatientInput struct {
	Phone *string `json:"phone,omitempty"`
	Image *string `json:"image,omitempty"`
}

func (in PatientInput) apply(patient *entities.Patient) {
	if in.Phone != nil {
		patient.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Image != nil {
		patient.Image = strings.TrimSpace(*in.Image)
	}
}

// PatientService handles the patient registry
type PatientService struct {
	repo repositories.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(repo repositories.PatientRepository) *PatientService {
	return &PatientService{repo: repo}
}

// List lists patients
func (s *PatientService) List(ctx context.Context, filter repositories.PatientFilter, page pagination.Page) ([]*entities.Patient, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter, page.Normalize())
}

// Get retrieves a patient
func (s *PatientService) Get(ctx context.Context, id int64) (*entities.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Me returns the caller's patient record, creating it when missing
func (s *PatientService) Me(ctx context.Context, caller access.Caller) (*entities.Patient, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	return s.repo.EnsureForIdentity(ctx, caller.IdentityID)
}

// Create creates the caller's patient record
func (s *PatientService) Create(ctx context.Context, caller access.Caller, input PatientInput) (*entities.Patient, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	patient := &entities.Patient{IdentityID: caller.IdentityID}
	input.apply(patient)
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, patient.ID)
}

// Update changes the caller's own patient record
func (s *PatientService) Update(ctx context.Context, caller access.Caller, id int64, input PatientInput) (*entities.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.OwnerOrReadOnly(write, patient.IdentityID, caller) {
		return nil, denied("change this patient")
	}
	input.apply(patient)
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}
