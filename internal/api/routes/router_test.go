package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/api/middleware"
	"github.com/zatekoja/hospital-management/internal/api/routes"
	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

type stubAppointments struct {
	handlers.AppointmentService
	lastCaller access.Caller
}

func (s *stubAppointments) List(_ context.Context, caller access.Caller, _ repositories.AppointmentFilter, _ pagination.Page) ([]*entities.Appointment, int64, error) {
	s.lastCaller = caller
	return []*entities.Appointment{}, 0, nil
}

type stubIdentity struct {
	handlers.IdentityService
}

func (stubIdentity) Login(context.Context, string, string) (auth.TokenPair, error) {
	return auth.TokenPair{}, apperrors.NewAuthenticationError("No active account found with the given credentials")
}

type pingOK struct{}

func (pingOK) PingContext(context.Context) error { return nil }

func newTestRouter(t *testing.T, appointments *stubAppointments) http.Handler {
	t.Helper()

	limiter := middleware.NewRateLimiter(0.0001, 1)
	t.Cleanup(limiter.Close)

	tokens := auth.NewTokenIssuer("router-secret", time.Minute, time.Hour)
	authenticator := middleware.NewAuthenticator(tokens, nil, nil)

	router := routes.NewRouter(routes.Handlers{
		Health:       handlers.NewHealthHandler(pingOK{}),
		Appointments: handlers.NewAppointmentHandler(appointments),
		Identity:     handlers.NewIdentityHandler(stubIdentity{}),
		Doctors:      handlers.NewDoctorHandler(nil),
		Reviews:      handlers.NewReviewHandler(nil),
		Patients:     handlers.NewPatientHandler(nil),
		Profiles:     handlers.NewProfileHandler(nil),
		Contact:      handlers.NewContactHandler(nil, nil),

		Designations:    handlers.NewCatalogHandler[entities.Designation](nil),
		Specialisations: handlers.NewCatalogHandler[entities.Specialisation](nil),
		AvailableTimes:  handlers.NewCatalogHandler[entities.AvailableTime](nil),
		Services:        handlers.NewCatalogHandler[entities.HospitalService](nil),
	}, authenticator, limiter, nil, []string{"*"})

	return router.SetupRoutes()
}

func TestRouter_Health(t *testing.T) {
	handler := newTestRouter(t, &stubAppointments{})

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_TrailingSlash(t *testing.T) {
	appointments := &stubAppointments{}
	handler := newTestRouter(t, appointments)

	for _, path := range []string{"/api/appointments", "/api/appointments/"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
	}
	assert.False(t, appointments.lastCaller.IsAuthenticated())
}

func TestRouter_InvalidBearerIsRejected(t *testing.T) {
	handler := newTestRouter(t, &stubAppointments{})

	req := httptest.NewRequest("GET", "/api/appointments", nil)
	req.Header.Set("Authorization", "Bearer nonsense")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_LoginIsThrottled(t *testing.T) {
	handler := newTestRouter(t, &stubAppointments{})

	login := func() int {
		req := httptest.NewRequest("POST", "/api/patients/login", nil)
		req.RemoteAddr = "198.51.100.7:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// the first request reaches the handler and fails on the empty body
	require.Equal(t, http.StatusBadRequest, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	handler := newTestRouter(t, &stubAppointments{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/patients", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	handler := newTestRouter(t, &stubAppointments{})

	req := httptest.NewRequest("OPTIONS", "/api/doctors", nil)
	req.Header.Set("Origin", "https://app.test")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
