package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

func TestProfileHandler_GetMyProfile(t *testing.T) {
	mockService := new(MockProfileService)
	handler := handlers.NewProfileHandler(mockService)
	mockService.On("Me", mock.Anything, patientCaller).
		Return(&entities.UserProfile{ID: 3, IdentityID: patientCaller.IdentityID, Role: entities.RolePatient}, nil)

	w := httptest.NewRecorder()
	handler.GetMyProfile(w, withCaller(httptest.NewRequest("GET", "/api/profiles/me", nil), patientCaller))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"patient"`)
}

func TestProfileHandler_UpdateProfile(t *testing.T) {
	t.Run("applies the patch", func(t *testing.T) {
		mockService := new(MockProfileService)
		handler := handlers.NewProfileHandler(mockService)

		bio := "Retired engineer"
		dob := "1990-04-02"
		mockService.On("Update", mock.Anything, patientCaller, int64(3), services.ProfilePatch{Bio: &bio, DateOfBirth: &dob}).
			Return(&entities.UserProfile{ID: 3, Bio: bio}, nil)

		req := httptest.NewRequest("PATCH", "/api/profiles/3", bytes.NewBufferString(`{"bio":"Retired engineer","date_of_birth":"1990-04-02"}`))
		req.SetPathValue("id", "3")
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, withCaller(req, patientCaller))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's profile", func(t *testing.T) {
		mockService := new(MockProfileService)
		handler := handlers.NewProfileHandler(mockService)
		mockService.On("Update", mock.Anything, patientCaller, int64(9), mock.Anything).
			Return(nil, apperrors.NewPermissionDeniedError("You do not have permission to change this profile."))

		req := httptest.NewRequest("PATCH", "/api/profiles/9", bytes.NewBufferString(`{"bio":"x"}`))
		req.SetPathValue("id", "9")
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, withCaller(req, patientCaller))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
