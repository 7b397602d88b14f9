package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ContactService handles messages left through the contact form
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Submit stores a message from anyone
func (s *ContactService) Submit(ctx context.Context, message *entities.ContactMessage) (*entities.ContactMessage, error) {
	message.ID = 0
	message.Name = strings.TrimSpace(message.Name)
	message.Phone = strings.TrimSpace(message.Phone)
	message.Message = strings.TrimSpace(message.Message)

	switch {
	case message.Name == "":
		return nil, apperrors.NewValidationError("name is required")
	case len([]rune(message.Name)) > entities.MaxContactNameLength:
		return nil, apperrors.NewValidationError(fmt.Sprintf("name must be at most %d characters", entities.MaxContactNameLength))
	case message.Phone == "":
		return nil, apperrors.NewValidationError("phone is required")
	case len(message.Phone) > entities.MaxContactPhoneLength:
		return nil, apperrors.NewValidationError(fmt.Sprintf("phone must be at most %d characters", entities.MaxContactPhoneLength))
	case message.Message == "":
		return nil, apperrors.NewValidationError("message is required")
	}

	message.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// List lists messages for staff
func (s *ContactService) List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.ContactMessage, int64, error) {
	if err := staffOnly(caller, "read contact messages"); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, page.Normalize())
}

// Get retrieves a message for staff
func (s *ContactService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.ContactMessage, error) {
	if err := staffOnly(caller, "read contact messages"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	if err := staffOnly(caller, "delete contact messages"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func staffOnly(caller access.Caller, action string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if !access.AdminOnly(caller) {
		return denied(action)
	}
	return nil
}
