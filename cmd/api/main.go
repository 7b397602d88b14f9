package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/adapters/cache"
	"github.com/zatekoja/hospital-management/internal/adapters/database"
	"github.com/zatekoja/hospital-management/internal/adapters/events"
	"github.com/zatekoja/hospital-management/internal/adapters/mail"
	"github.com/zatekoja/hospital-management/internal/api/handlers"
	"github.com/zatekoja/hospital-management/internal/api/middleware"
	"github.com/zatekoja/hospital-management/internal/api/routes"
	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospital-management/internal/infrastructure/observability"
	"github.com/zatekoja/hospital-management/pkg/config"
)

const (
	shutdownTimeout     = 10 * time.Second
	memoryCacheSweep    = time.Minute
	redisCachePrefix    = "hms:"
	migrationTimeout    = 30 * time.Second
	telemetryFlushLimit = 5 * time.Second
	cacheWarmInterval   = 5 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushLimit)
				defer cancel()
				if err := shutdown(flushCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	pgClient.WithMetrics(metrics)

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, migrationTimeout)
	err = pgClient.ApplyMigrations(migrateCtx, cfg.App.MigrationPath)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.App.MigrationPath).Msg("failed to apply migrations")
	}

	// Cache and event bus: Redis when reachable, in-process otherwise
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, falling back to in-process cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, redisCachePrefix, metrics)
			eventBus = events.NewRedisEventBus(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized")
		}
	}
	if cacheProvider == nil {
		memoryCache := cache.NewMemoryAdapter(memoryCacheSweep, metrics)
		defer memoryCache.Close()
		cacheProvider = memoryCache
		eventBus = events.NewMemoryEventBus()
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}()

	var mailer providers.Mailer
	switch cfg.Mail.Mode {
	case "smtp":
		mailer = mail.NewSMTPMailer(&cfg.Mail)
	default:
		mailer = mail.NewLogMailer()
	}

	// Initialize adapters
	identityAdapter := database.NewIdentityAdapter(pgClient)
	profileAdapter := database.NewProfileAdapter(pgClient)
	patientAdapter := database.NewPatientAdapter(pgClient)
	doctorAdapter := database.NewDoctorAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)
	contactAdapter := database.NewContactAdapter(pgClient)

	designationAdapter := database.NewCachedCatalogAdapter(database.NewDesignationAdapter(pgClient), cacheProvider, "designations")
	specialisationAdapter := database.NewCachedCatalogAdapter(database.NewSpecialisationAdapter(pgClient), cacheProvider, "specialisations")
	availableTimeAdapter := database.NewCachedCatalogAdapter(database.NewAvailableTimeAdapter(pgClient), cacheProvider, "available_times")
	hospitalServiceAdapter := database.NewCachedCatalogAdapter(database.NewHospitalServiceAdapter(pgClient), cacheProvider, "hospital_services")

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	verification := auth.NewVerificationTokens(cfg.Auth.JWTSecret, cfg.Auth.VerificationTTL)
	profileHook := services.NewProfileHook(profileAdapter, patientAdapter)

	identityService := services.NewIdentityService(
		identityAdapter,
		profileHook,
		tokens,
		auth.NewBlacklist(cacheProvider),
		verification,
		mailer,
		eventBus,
		cfg.App.PublicBaseURL,
	)
	appointmentService := services.NewAppointmentService(
		appointmentAdapter,
		patientAdapter,
		doctorAdapter,
		availableTimeAdapter,
		eventBus,
		metrics,
	)
	doctorService := services.NewDoctorService(doctorAdapter, profileAdapter)
	reviewService := services.NewReviewService(reviewAdapter, patientAdapter, doctorAdapter)
	patientService := services.NewPatientService(patientAdapter)
	profileService := services.NewProfileService(profileAdapter, identityAdapter)
	contactService := services.NewContactService(contactAdapter)

	// Catalog writes on other instances reach this one through the event bus
	cacheInvalidationService := services.NewCacheInvalidationService(cacheProvider, eventBus)
	if err := cacheInvalidationService.Start(); err != nil {
		log.Warn().Err(err).Msg("failed to start cache invalidation service")
	}
	defer cacheInvalidationService.Stop()

	warmer := services.NewCacheWarmingService(
		services.CatalogWarmTarget[entities.Designation]("designations", designationAdapter),
		services.CatalogWarmTarget[entities.Specialisation]("specialisations", specialisationAdapter),
		services.CatalogWarmTarget[entities.AvailableTime]("available_times", availableTimeAdapter),
		services.CatalogWarmTarget[entities.HospitalService]("hospital_services", hospitalServiceAdapter),
	)
	warmer.StartPeriodicWarming(ctx, cacheWarmInterval)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer limiter.Close()

	// Set up router
	router := routes.NewRouter(
		routes.Handlers{
			Health:       handlers.NewHealthHandler(pgClient.DB()),
			Appointments: handlers.NewAppointmentHandler(appointmentService),
			Doctors:      handlers.NewDoctorHandler(doctorService),
			Reviews:      handlers.NewReviewHandler(reviewService),
			Patients:     handlers.NewPatientHandler(patientService),
			Identity:     handlers.NewIdentityHandler(identityService),
			Profiles:     handlers.NewProfileHandler(profileService),
			Contact:      handlers.NewContactHandler(contactService, cacheProvider),

			Designations:    handlers.NewCatalogHandler[entities.Designation](services.NewDesignationService(designationAdapter, eventBus)),
			Specialisations: handlers.NewCatalogHandler[entities.Specialisation](services.NewSpecialisationService(specialisationAdapter, eventBus)),
			AvailableTimes:  handlers.NewCatalogHandler[entities.AvailableTime](services.NewAvailableTimeService(availableTimeAdapter, eventBus)),
			Services:        handlers.NewCatalogHandler[entities.HospitalService](services.NewHospitalServiceService(hospitalServiceAdapter, eventBus)),
		},
		middleware.NewAuthenticator(tokens, identityAdapter, profileAdapter),
		limiter,
		metrics,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("server shutting down")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
