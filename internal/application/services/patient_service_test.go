package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

func TestPatientService_Me_CreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	service := services.NewPatientService(repo)

	repo.On("EnsureForIdentity", ctx, patientIdentity).Return(&entities.Patient{ID: 3, IdentityID: patientIdentity}, nil)

	patient, err := service.Me(ctx, roleCaller(patientIdentity, entities.RolePatient))
	require.NoError(t, err)
	assert.Equal(t, int64(3), patient.ID)

	_, err = service.Me(ctx, access.Anonymous())
	assert.Equal(t, apperrors.ErrorTypeAuthentication, apperrors.TypeOf(err))
}

func TestPatientService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first record", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := services.NewPatientService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(p *entities.Patient) bool {
			return p.IdentityID == patientIdentity && p.Phone == "08012345678"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Patient).ID = 3
		}).Return(nil)
		repo.On("GetByID", ctx, int64(3)).Return(&entities.Patient{ID: 3, IdentityID: patientIdentity, Phone: "08012345678"}, nil)

		patient, err := service.Create(ctx, roleCaller(patientIdentity, entities.RolePatient), services.PatientInput{Phone: ptr(" 08012345678 ")})

		require.NoError(t, err)
		assert.Equal(t, "08012345678", patient.Phone)
	})

	t.Run("second record", func(t *testing.T) {
		repo := new(MockPatientRepository)
		service := services.NewPatientService(repo)
		repo.On("Create", ctx, mock.Anything).Return(apperrors.NewDuplicateError("patient already exists for this user"))

		_, err := service.Create(ctx, roleCaller(patientIdentity, entities.RolePatient), services.PatientInput{})

		assert.Equal(t, apperrors.ErrorTypeDuplicate, apperrors.TypeOf(err))
	})
}

func TestPatientService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	service := services.NewPatientService(repo)

	repo.On("List", ctx, repositories.PatientFilter{Search: "ada"}, pagination.Default()).
		Return([]*entities.Patient{{ID: 3}}, int64(1), nil)

	patients, count, err := service.List(ctx, repositories.PatientFilter{Search: " ada "}, pagination.Page{})

	require.NoError(t, err)
	assert.Len(t, patients, 1)
	assert.Equal(t, int64(1), count)
}

func TestPatientService_Update_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPatientRepository)
	service := services.NewPatientService(repo)

	repo.On("GetByID", ctx, int64(3)).Return(&entities.Patient{ID: 3, IdentityID: patientIdentity}, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(p *entities.Patient) bool { return p.Image == "me.png" })).Return(nil)

	patient, err := service.Update(ctx, roleCaller(patientIdentity, entities.RolePatient), 3, services.PatientInput{Image: ptr("me.png")})
	require.NoError(t, err)
	assert.Equal(t, "me.png", patient.Image)

	_, err = service.Update(ctx, staffCaller, 3, services.PatientInput{Image: ptr("x.png")})
	assert.Equal(t, apperrors.ErrorTypePermissionDenied, apperrors.TypeOf(err))
	repo.AssertNumberOfCalls(t, "Update", 1)
}
