package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/hospital-management/internal/adapters/cache"
	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

func submitContact(handler *handlers.ContactHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/contact-us", bytes.NewBufferString(body))
	req.RemoteAddr = "192.0.2.1:5000"
	w := httptest.NewRecorder()
	handler.SubmitContact(w, req)
	return w
}

func TestContactHandler_SubmitContact(t *testing.T) {
	mockService := new(MockContactService)
	handler := handlers.NewContactHandler(mockService, nil)

	mockService.On("Submit", mock.Anything, &entities.ContactMessage{Name: "Ada", Phone: "08012345678", Message: "Call me"}).
		Return(&entities.ContactMessage{ID: 1, Name: "Ada", Phone: "08012345678", Message: "Call me"}, nil).Once()

	body := `{"name":"Ada","phone":"08012345678","message":"Call me"}`
	w := submitContact(handler, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = submitContact(handler, body)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate_ignored")

	mockService.AssertNumberOfCalls(t, "Submit", 1)
}

func TestContactHandler_SubmitContact_SharedCache(t *testing.T) {
	store := cache.NewMemoryAdapter(0, nil)
	defer store.Close()

	mockService := new(MockContactService)
	first := handlers.NewContactHandler(mockService, store)
	second := handlers.NewContactHandler(mockService, store)

	mockService.On("Submit", mock.Anything, mock.Anything).Return(&entities.ContactMessage{ID: 1}, nil)

	body := `{"name":"Ada","phone":"08012345678","message":"Call me"}`
	assert.Equal(t, http.StatusCreated, submitContact(first, body).Code)
	assert.Equal(t, http.StatusAccepted, submitContact(second, body).Code)
}

func TestContactHandler_SubmitContact_InvalidCanBeRetried(t *testing.T) {
	mockService := new(MockContactService)
	handler := handlers.NewContactHandler(mockService, nil)

	mockService.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("phone must be at most 11 characters")).Once()
	mockService.On("Submit", mock.Anything, mock.Anything).
		Return(&entities.ContactMessage{ID: 1}, nil).Once()

	body := `{"name":"Ada","phone":"080123456789","message":"Call me"}`
	assert.Equal(t, http.StatusBadRequest, submitContact(handler, body).Code)
	assert.Equal(t, http.StatusCreated, submitContact(handler, body).Code)
}

func TestContactHandler_ListContacts(t *testing.T) {
	mockService := new(MockContactService)
	handler := handlers.NewContactHandler(mockService, nil)
	mockService.On("List", mock.Anything, access.Anonymous(), pagination.Default()).
		Return(nil, int64(0), apperrors.NewAuthenticationError("Authentication credentials were not provided."))
	mockService.On("List", mock.Anything, adminCaller, pagination.Default()).
		Return([]*entities.ContactMessage{{ID: 1}}, int64(1), nil)

	w := httptest.NewRecorder()
	handler.ListContacts(w, httptest.NewRequest("GET", "/api/contact-us", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	handler.ListContacts(w, withCaller(httptest.NewRequest("GET", "/api/contact-us", nil), adminCaller))
	assert.Equal(t, http.StatusOK, w.Code)
}
