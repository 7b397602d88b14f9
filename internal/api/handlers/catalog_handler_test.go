package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

var adminCaller = access.Caller{IdentityID: 1, Username: "admin", IsStaff: true}

func TestCatalogHandler_List(t *testing.T) {
	mockService := new(MockCatalogService[entities.Designation])
	handler := handlers.NewCatalogHandler[entities.Designation](mockService)
	mockService.On("List", mock.Anything, pagination.Page{Number: 2, Size: 1}).
		Return([]*entities.Designation{{ID: 2, Name: "Consultant", Slug: "consultant"}}, int64(2), nil)

	req := httptest.NewRequest("GET", "http://api.test/api/designations?page=2&limits=1", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope pagination.Response[entities.Designation]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Next)
	require.NotNil(t, envelope.Previous)
	assert.Equal(t, "http://api.test/api/designations?limits=1", *envelope.Previous)
	assert.Equal(t, "consultant", envelope.Results[0].Slug)
}

func TestCatalogHandler_Create(t *testing.T) {
	t.Run("staff", func(t *testing.T) {
		mockService := new(MockCatalogService[entities.Specialisation])
		handler := handlers.NewCatalogHandler[entities.Specialisation](mockService)
		mockService.On("Create", mock.Anything, adminCaller, &entities.Specialisation{Name: "Cardiology"}).
			Return(&entities.Specialisation{ID: 1, Name: "Cardiology", Slug: "cardiology"}, nil)

		req := withCaller(httptest.NewRequest("POST", "/api/specialisations", bytes.NewBufferString(`{"name":"Cardiology"}`)), adminCaller)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"slug":"cardiology"`)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		mockService := new(MockCatalogService[entities.Specialisation])
		handler := handlers.NewCatalogHandler[entities.Specialisation](mockService)
		mockService.On("Create", mock.Anything, adminCaller, mock.Anything).
			Return(nil, apperrors.NewDuplicateError("specialisation with this slug already exists."))

		req := withCaller(httptest.NewRequest("POST", "/api/specialisations", bytes.NewBufferString(`{"name":"Cardiology"}`)), adminCaller)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("patient", func(t *testing.T) {
		mockService := new(MockCatalogService[entities.Specialisation])
		handler := handlers.NewCatalogHandler[entities.Specialisation](mockService)
		mockService.On("Create", mock.Anything, patientCaller, mock.Anything).
			Return(nil, apperrors.NewPermissionDeniedError("You do not have permission to add specialisations."))

		req := withCaller(httptest.NewRequest("POST", "/api/specialisations", bytes.NewBufferString(`{"name":"Cardiology"}`)), patientCaller)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCatalogHandler_Update_AppliesBodyOverStoredItem(t *testing.T) {
	mockService := new(MockCatalogService[entities.HospitalService])
	handler := handlers.NewCatalogHandler[entities.HospitalService](mockService)

	var updated entities.HospitalService
	mockService.On("Update", mock.Anything, adminCaller, int64(3), mock.Anything).
		Run(func(args mock.Arguments) {
			mutate := args.Get(3).(func(*entities.HospitalService) error)
			updated = entities.HospitalService{ID: 3, Name: "X-Ray", Description: "Imaging", Image: "xray.png"}
			require.NoError(t, mutate(&updated))
		}).
		Return(&entities.HospitalService{ID: 3}, nil)

	req := withCaller(httptest.NewRequest("PATCH", "/api/services/3", bytes.NewBufferString(`{"description":"Digital imaging"}`)), adminCaller)
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "X-Ray", updated.Name)
	assert.Equal(t, "Digital imaging", updated.Description)
	assert.Equal(t, "xray.png", updated.Image)
}

func TestCatalogHandler_Update_RejectsMalformedBody(t *testing.T) {
	mockService := new(MockCatalogService[entities.HospitalService])
	handler := handlers.NewCatalogHandler[entities.HospitalService](mockService)

	req := withCaller(httptest.NewRequest("PUT", "/api/services/3", bytes.NewBufferString(`{"name":`)), adminCaller)
	req.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_Delete(t *testing.T) {
	mockService := new(MockCatalogService[entities.AvailableTime])
	handler := handlers.NewCatalogHandler[entities.AvailableTime](mockService)
	mockService.On("Delete", mock.Anything, adminCaller, int64(4)).Return(apperrors.NewNotFoundError("available time not found"))

	req := withCaller(httptest.NewRequest("DELETE", "/api/available-times/4", nil), adminCaller)
	req.SetPathValue("id", "4")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
