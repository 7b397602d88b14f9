package routes

import (
	"net/http"

	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/api/middleware"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/observability"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Health       *handlers.HealthHandler
	Appointments *handlers.AppointmentHandler
	Doctors      *handlers.DoctorHandler
	Reviews      *handlers.ReviewHandler
	Patients     *handlers.PatientHandler
	Identity     *handlers.IdentityHandler
	Profiles     *handlers.ProfileHandler
	Contact      *handlers.ContactHandler

	Designations    *handlers.CatalogHandler[entities.Designation]
	Specialisations *handlers.CatalogHandler[entities.Specialisation]
	AvailableTimes  *handlers.CatalogHandler[entities.AvailableTime]
	Services        *handlers.CatalogHandler[entities.HospitalService]
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	authenticator  *middleware.Authenticator
	limiter        *middleware.RateLimiter
	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router. limiter throttles the account endpoints
// and may be nil.
func NewRouter(
	h Handlers,
	authenticator *middleware.Authenticator,
	limiter *middleware.RateLimiter,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		authenticator:  authenticator,
		limiter:        limiter,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	h := r.handlers

	// Health endpoints
	r.mux.Handle("GET /health", r.plain(h.Health.Live))
	r.mux.Handle("GET /ready", r.plain(h.Health.Ready))

	// Appointment endpoints
	r.handle("GET", "/api/appointments", h.Appointments.ListAppointments)
	r.handle("POST", "/api/appointments", h.Appointments.BookAppointment)
	r.handle("GET", "/api/appointments/{id}", h.Appointments.GetAppointment)
	r.handle("PUT", "/api/appointments/{id}", h.Appointments.UpdateAppointment)
	r.handle("PATCH", "/api/appointments/{id}", h.Appointments.UpdateAppointment)
	r.handle("DELETE", "/api/appointments/{id}", h.Appointments.DeleteAppointment)

	// Doctor endpoints
	r.handle("GET", "/api/doctors", h.Doctors.ListDoctors)
	r.handle("POST", "/api/doctors", h.Doctors.RegisterDoctor)
	r.handle("GET", "/api/doctors/{id}", h.Doctors.GetDoctor)
	r.handle("PUT", "/api/doctors/{id}", h.Doctors.UpdateDoctor)
	r.handle("PATCH", "/api/doctors/{id}", h.Doctors.UpdateDoctor)
	r.handle("DELETE", "/api/doctors/{id}", h.Doctors.DeleteDoctor)

	// Review endpoints
	r.handle("GET", "/api/reviews", h.Reviews.ListReviews)
	r.handle("POST", "/api/reviews", h.Reviews.CreateReview)
	r.handle("GET", "/api/reviews/{id}", h.Reviews.GetReview)
	r.handle("PUT", "/api/reviews/{id}", h.Reviews.UpdateReview)
	r.handle("PATCH", "/api/reviews/{id}", h.Reviews.UpdateReview)
	r.handle("DELETE", "/api/reviews/{id}", h.Reviews.DeleteReview)

	// Catalog endpoints
	registerCatalog(r, "/api/designations", h.Designations)
	registerCatalog(r, "/api/specialisations", h.Specialisations)
	registerCatalog(r, "/api/available-times", h.AvailableTimes)
	registerCatalog(r, "/api/services", h.Services)

	// Patient and account endpoints
	r.handle("GET", "/api/patients", h.Patients.ListPatients)
	r.handle("POST", "/api/patients", h.Patients.CreatePatient)
	r.handle("GET", "/api/patients/me", h.Patients.GetMyPatient)
	r.handle("GET", "/api/patients/{id}", h.Patients.GetPatient)
	r.handle("PATCH", "/api/patients/{id}", h.Patients.UpdatePatient)
	r.handle("POST", "/api/patients/register", r.throttled(h.Identity.Register))
	r.handle("GET", "/api/patients/verify-email/{uid}/{token}", h.Identity.VerifyEmail)
	r.handle("POST", "/api/patients/login", r.throttled(h.Identity.Login))
	r.handle("POST", "/api/patients/logout", h.Identity.Logout)
	r.handle("POST", "/api/patients/token/refresh", r.throttled(h.Identity.Refresh))

	// Profile endpoints
	r.handle("GET", "/api/profiles", h.Profiles.ListProfiles)
	r.handle("GET", "/api/profiles/me", h.Profiles.GetMyProfile)
	r.handle("GET", "/api/profiles/{id}", h.Profiles.GetProfile)
	r.handle("PATCH", "/api/profiles/{id}", h.Profiles.UpdateProfile)

	// Contact desk endpoints
	r.handle("GET", "/api/contact-us", h.Contact.ListContacts)
	r.handle("POST", "/api/contact-us", h.Contact.SubmitContact)
	r.handle("GET", "/api/contact-us/{id}", h.Contact.GetContact)
	r.handle("DELETE", "/api/contact-us/{id}", h.Contact.DeleteContact)

	var handler http.Handler = r.mux
	handler = middleware.CacheControl(handler)
	handler = middleware.SecurityHeaders(handler)
	// CORS wraps everything so preflights never reach the mux
	handler = middleware.CORS(r.allowedOrigins)(handler)

	return handler
}

func registerCatalog[T repositories.CatalogItem](r *Router, base string, h *handlers.CatalogHandler[T]) {
	r.handle("GET", base, h.List)
	r.handle("POST", base, h.Create)
	r.handle("GET", base+"/{id}", h.Get)
	r.handle("PUT", base+"/{id}", h.Update)
	r.handle("PATCH", base+"/{id}", h.Update)
	r.handle("DELETE", base+"/{id}", h.Delete)
}

// handle registers fn for path with and without a trailing slash. Per-route
// middleware runs inside the mux so that r.Pattern is already set.
func (r *Router) handle(method, path string, fn http.HandlerFunc) {
	h := r.authenticator.Middleware(fn)
	h = middleware.LoggingMiddleware(h)
	h = middleware.ObservabilityMiddleware(r.metrics)(h)

	r.mux.Handle(method+" "+path, h)
	r.mux.Handle(method+" "+path+"/{$}", h)
}

func (r *Router) plain(fn http.HandlerFunc) http.Handler {
	return middleware.ObservabilityMiddleware(r.metrics)(fn)
}

func (r *Router) throttled(fn http.HandlerFunc) http.HandlerFunc {
	if r.limiter == nil {
		return fn
	}
	return r.limiter.Limit(fn)
}
