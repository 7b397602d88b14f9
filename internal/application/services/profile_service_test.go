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

func storedProfile() *entities.UserProfile {
	return &entities.UserProfile{ID: 8, IdentityID: patientIdentity, Role: entities.RolePatient}
}

func TestProfileService_List_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("own profile only", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := services.NewProfileService(profiles, nil)
		own := patientIdentity
		profiles.On("List", ctx, repositories.ProfileFilter{IdentityID: &own}, pagination.Default()).
			Return([]*entities.UserProfile{storedProfile()}, int64(1), nil)

		items, _, err := service.List(ctx, roleCaller(patientIdentity, entities.RolePatient), pagination.Page{})

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("staff sees all", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		service := services.NewProfileService(profiles, nil)
		profiles.On("List", ctx, repositories.ProfileFilter{}, pagination.Default()).
			Return([]*entities.UserProfile{}, int64(0), nil)

		_, _, err := service.List(ctx, staffCaller, pagination.Page{})

		require.NoError(t, err)
		profiles.AssertExpectations(t)
	})

	t.Run("anonymous", func(t *testing.T) {
		service := services.NewProfileService(new(MockProfileRepository), nil)
		_, _, err := service.List(ctx, access.Anonymous(), pagination.Page{})
		assert.Equal(t, apperrors.ErrorTypeAuthentication, apperrors.TypeOf(err))
	})
}

func TestProfileService_Get_HidesOtherProfiles(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	service := services.NewProfileService(profiles, nil)
	profiles.On("GetByID", ctx, int64(8)).Return(storedProfile(), nil)

	_, err := service.Get(ctx, roleCaller(otherIdentity, entities.RolePatient), 8)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	profile, err := service.Get(ctx, staffCaller, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), profile.ID)
}

func TestProfileService_Me(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	service := services.NewProfileService(profiles, nil)
	profiles.On("EnsureForIdentity", ctx, patientIdentity, entities.RolePatient).Return(storedProfile(), nil)

	profile, err := service.Me(ctx, roleCaller(patientIdentity, entities.RolePatient))

	require.NoError(t, err)
	assert.Equal(t, entities.RolePatient, profile.Role)
}

func TestProfileService_Update(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	identities := new(MockIdentityRepository)
	service := services.NewProfileService(profiles, identities)

	profiles.On("GetByID", ctx, int64(8)).Return(storedProfile(), nil)
	identities.On("GetByID", ctx, patientIdentity).Return(&entities.Identity{ID: patientIdentity, Username: "ada"}, nil)
	identities.On("UpdateNames", ctx, mock.MatchedBy(func(i *entities.Identity) bool {
		return i.FirstName == "Ada" && i.Email == "Ada@example.com"
	})).Return(nil)
	profiles.On("Update", ctx, mock.MatchedBy(func(p *entities.UserProfile) bool {
		return p.Bio == "hello" && p.DateOfBirth != nil && p.DateOfBirth.Format("2006-01-02") == "1990-04-02" && p.Role == entities.RolePatient
	})).Return(nil)

	profile, err := service.Update(ctx, roleCaller(patientIdentity, entities.RolePatient), 8, services.ProfilePatch{
		Bio:         ptr(" hello "),
		DateOfBirth: ptr("1990-04-02"),
		FirstName:   ptr("Ada"),
		Email:       ptr("Ada@EXAMPLE.com"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Identity.FirstName)
	profiles.AssertExpectations(t)
	identities.AssertExpectations(t)
}

func TestProfileService_Update_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		patch services.ProfilePatch
	}{
		{"bad date", services.ProfilePatch{DateOfBirth: ptr("02/04/1990")}},
		{"bad email", services.ProfilePatch{Email: ptr("not-an-email")}},
		{"display name email", services.ProfilePatch{Email: ptr("Ada <ada@example.com>")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := new(MockProfileRepository)
			identities := new(MockIdentityRepository)
			service := services.NewProfileService(profiles, identities)
			profiles.On("GetByID", ctx, int64(8)).Return(storedProfile(), nil)
			identities.On("GetByID", ctx, patientIdentity).Return(&entities.Identity{ID: patientIdentity}, nil)

			_, err := service.Update(ctx, roleCaller(patientIdentity, entities.RolePatient), 8, tt.patch)

			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
			profiles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestProfileService_Update_ClearsDateOfBirth(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	service := services.NewProfileService(profiles, nil)

	stored := storedProfile()
	profiles.On("GetByID", ctx, int64(8)).Return(stored, nil)
	profiles.On("Update", ctx, mock.MatchedBy(func(p *entities.UserProfile) bool { return p.DateOfBirth == nil })).Return(nil)

	_, err := service.Update(ctx, staffCaller, 8, services.ProfilePatch{DateOfBirth: ptr("")})

	require.NoError(t, err)
	profiles.AssertExpectations(t)
}

func TestProfileHook_Provision(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	patients := new(MockPatientRepository)
	hook := services.NewProfileHook(profiles, patients)

	profiles.On("EnsureForIdentity", ctx, int64(4), entities.RolePatient).Return(&entities.UserProfile{IdentityID: 4}, nil)
	patients.On("EnsureForIdentity", ctx, int64(4)).Return(&entities.Patient{IdentityID: 4}, nil)

	require.NoError(t, hook.Provision(ctx, 4))
	require.NoError(t, hook.Provision(ctx, 4))
	profiles.AssertNumberOfCalls(t, "EnsureForIdentity", 2)
	patients.AssertNumberOfCalls(t, "EnsureForIdentity", 2)
}

func TestProfileHook_Provision_StopsOnProfileFailure(t *testing.T) {
	ctx := context.Background()
	profiles := new(MockProfileRepository)
	patients := new(MockPatientRepository)
	hook := services.NewProfileHook(profiles, patients)

	profiles.On("EnsureForIdentity", ctx, int64(4), entities.RolePatient).Return(nil, assert.AnError)

	err := hook.Provision(ctx, 4)

	assert.ErrorIs(t, err, assert.AnError)
	patients.AssertNotCalled(t, "EnsureForIdentity", mock.Anything, mock.Anything)
}
