package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Book(ctx context.Context, caller access.Caller, input services.CreateAppointmentInput) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, caller access.Caller, filter repositories.AppointmentFilter, page pagination.Page) ([]*entities.Appointment, int64, error) {
	args := m.Called(ctx, caller, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Update(ctx context.Context, caller access.Caller, id int64, patch services.AppointmentPatch) (*entities.Appointment, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockDoctorService struct {
	mock.Mock
}

func (m *MockDoctorService) Register(ctx context.Context, caller access.Caller, input services.DoctorInput) (*entities.Doctor, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) List(ctx context.Context, filter repositories.DoctorFilter, page pagination.Page) ([]*entities.Doctor, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Doctor), args.Get(1).(int64), args.Error(2)
}

func (m *MockDoctorService) Get(ctx context.Context, id int64) (*entities.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) Update(ctx context.Context, caller access.Caller, id int64, input services.DoctorInput) (*entities.Doctor, error) {
	args := m.Called(ctx, caller, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, caller access.Caller, input services.CreateReviewInput) (*entities.Review, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context, filter repositories.ReviewFilter, page pagination.Page) ([]*entities.Review, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Get(ctx context.Context, id int64) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, caller access.Caller, id int64, patch services.ReviewPatch) (*entities.Review, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockCatalogService[T repositories.CatalogItem] struct {
	mock.Mock
}

func (m *MockCatalogService[T]) Collection() string {
	return m.Called().String(0)
}

func (m *MockCatalogService[T]) List(ctx context.Context, page pagination.Page) ([]*T, int64, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*T), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogService[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCatalogService[T]) Create(ctx context.Context, caller access.Caller, item *T) (*T, error) {
	args := m.Called(ctx, caller, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCatalogService[T]) Update(ctx context.Context, caller access.Caller, id int64, mutate func(*T) error) (*T, error) {
	args := m.Called(ctx, caller, id, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCatalogService[T]) Delete(ctx context.Context, caller access.Caller, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Register(ctx context.Context, input services.RegisterInput) (*entities.Identity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Identity), args.Error(1)
}

func (m *MockIdentityService) VerifyEmail(ctx context.Context, uid, token string) error {
	args := m.Called(ctx, uid, token)
	return args.Error(0)
}

func (m *MockIdentityService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(auth.TokenPair), args.Error(1)
}

func (m *MockIdentityService) Refresh(ctx context.Context, refresh string) (string, error) {
	args := m.Called(ctx, refresh)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityService) Logout(ctx context.Context, caller access.Caller, refresh string) error {
	args := m.Called(ctx, caller, refresh)
	return args.Error(0)
}

type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, message *entities.ContactMessage) (*entities.ContactMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ContactMessage), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.ContactMessage, int64, error) {
	args := m.Called(ctx, caller, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.ContactMessage), args.Get(1).(int64), args.Error(2)
}

func (m *MockContactService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.ContactMessage, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ContactMessage), args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, caller access.Caller, id int64) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

type MockPatientService struct {
	mock.Mock
}

func (m *MockPatientService) List(ctx context.Context, filter repositories.PatientFilter, page pagination.Page) ([]*entities.Patient, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Patient), args.Get(1).(int64), args.Error(2)
}

func (m *MockPatientService) Get(ctx context.Context, id int64) (*entities.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientService) Me(ctx context.Context, caller access.Caller) (*entities.Patient, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientService) Create(ctx context.Context, caller access.Caller, input services.PatientInput) (*entities.Patient, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

func (m *MockPatientService) Update(ctx context.Context, caller access.Caller, id int64, input services.PatientInput) (*entities.Patient, error) {
	args := m.Called(ctx, caller, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Patient), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Me(ctx context.Context, caller access.Caller) (*entities.UserProfile, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context, caller access.Caller, page pagination.Page) ([]*entities.UserProfile, int64, error) {
	args := m.Called(ctx, caller, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.UserProfile), args.Get(1).(int64), args.Error(2)
}

func (m *MockProfileService) Get(ctx context.Context, caller access.Caller, id int64) (*entities.UserProfile, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, caller access.Caller, id int64, patch services.ProfilePatch) (*entities.UserProfile, error) {
	args := m.Called(ctx, caller, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}
