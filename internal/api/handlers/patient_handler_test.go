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
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

func TestPatientHandler_ListPatients(t *testing.T) {
	mockService := new(MockPatientService)
	handler := handlers.NewPatientHandler(mockService)
	mockService.On("List", mock.Anything, repositories.PatientFilter{Phone: "0801", Search: "ada"}, pagination.Default()).
		Return([]*entities.Patient{{ID: 1, Phone: "08012345678"}}, int64(1), nil)

	w := httptest.NewRecorder()
	handler.ListPatients(w, httptest.NewRequest("GET", "/api/patients?phone=%200801%20&search=ada", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestPatientHandler_CreatePatient(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mockService := new(MockPatientService)
		handler := handlers.NewPatientHandler(mockService)
		phone := "08012345678"
		mockService.On("Create", mock.Anything, patientCaller, services.PatientInput{Phone: &phone}).
			Return(&entities.Patient{ID: 1, IdentityID: patientCaller.IdentityID, Phone: phone}, nil)

		req := withCaller(httptest.NewRequest("POST", "/api/patients", bytes.NewBufferString(`{"phone":"08012345678"}`)), patientCaller)
		w := httptest.NewRecorder()

		handler.CreatePatient(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("already registered", func(t *testing.T) {
		mockService := new(MockPatientService)
		handler := handlers.NewPatientHandler(mockService)
		mockService.On("Create", mock.Anything, patientCaller, mock.Anything).
			Return(nil, apperrors.NewDuplicateError("patient record already exists"))

		req := withCaller(httptest.NewRequest("POST", "/api/patients", bytes.NewBufferString(`{}`)), patientCaller)
		w := httptest.NewRecorder()

		handler.CreatePatient(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPatientHandler_GetPatient(t *testing.T) {
	mockService := new(MockPatientService)
	handler := handlers.NewPatientHandler(mockService)
	mockService.On("Get", mock.Anything, int64(404)).Return(nil, apperrors.NewNotFoundError("patient not found"))

	req := httptest.NewRequest("GET", "/api/patients/404", nil)
	req.SetPathValue("id", "404")
	w := httptest.NewRecorder()

	handler.GetPatient(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
