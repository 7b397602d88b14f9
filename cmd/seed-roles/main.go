package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/adapters/database"
	"github.com/zatekoja/hospital-management/internal/application/services"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/hospital-management/internal/infrastructure/observability"
	"github.com/zatekoja/hospital-management/pkg/config"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

type demoUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
	Role      entities.Role
}

var demoUsers = []demoUser{
	{"admin_user", "admin@example.com", "adminpassword123", "Admin", "User", true, entities.RoleAdmin},
	{"doctor_user", "doctor@example.com", "doctorpassword123", "Doctor", "User", false, entities.RoleDoctor},
	{"patient_user", "patient@example.com", "patientpassword123", "Patient", "User", false, entities.RolePatient},
	{"staff_user", "staff@example.com", "staffpassword123", "Staff", "User", true, entities.RoleStaff},
}

type identityStore interface {
	GetByUsername(ctx context.Context, username string) (*entities.Identity, error)
	Create(ctx context.Context, identity *entities.Identity) error
}

type provisioner interface {
	Provision(ctx context.Context, identityID int64) error
}

type roleSetter interface {
	SetRole(ctx context.Context, identityID int64, role entities.Role) error
}

type seeder struct {
	identities identityStore
	hook       provisioner
	roles      roleSetter
}

// seed creates the missing demo users and returns how many were created
// and skipped
func (s *seeder) seed(ctx context.Context, users []demoUser) (created, skipped int, err error) {
	for _, u := range users {
		_, err := s.identities.GetByUsername(ctx, u.Username)
		switch {
		case err == nil:
			log.Warn().Str("username", u.Username).Msg("user already exists, skipping")
			skipped++
			continue
		case !apperrors.Is(err, apperrors.ErrorTypeNotFound):
			return created, skipped, fmt.Errorf("look up %s: %w", u.Username, err)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return created, skipped, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}

		identity := &entities.Identity{
			Username:     u.Username,
			Email:        u.Email,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			PasswordHash: hash,
			IsActive:     true,
			IsStaff:      u.IsStaff,
		}
		if err := s.identities.Create(ctx, identity); err != nil {
			return created, skipped, fmt.Errorf("create %s: %w", u.Username, err)
		}
		if err := s.hook.Provision(ctx, identity.ID); err != nil {
			return created, skipped, fmt.Errorf("provision %s: %w", u.Username, err)
		}
		if err := s.roles.SetRole(ctx, identity.ID, u.Role); err != nil {
			return created, skipped, fmt.Errorf("set role for %s: %w", u.Username, err)
		}

		log.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("created user")
		created++
	}
	return created, skipped, nil
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprintln(out, "This will create test users with predefined passwords. Do not use in production environments.")
	fmt.Fprint(out, "Are you sure you want to continue? (y/N) ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("seed-roles", cfg.App.Env)

	if !*yes && !confirm(os.Stdin, os.Stdout) {
		log.Info().Msg("user creation cancelled")
		return
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	profiles := database.NewProfileAdapter(pgClient)
	s := &seeder{
		identities: database.NewIdentityAdapter(pgClient),
		hook:       services.NewProfileHook(profiles, database.NewPatientAdapter(pgClient)),
		roles:      profiles,
	}

	created, skipped, err := s.seed(context.Background(), demoUsers)
	if err != nil {
		log.Error().Err(err).Int("created", created).Msg("seeding stopped")
		pgClient.Close()
		os.Exit(1)
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("seeding finished")
}
