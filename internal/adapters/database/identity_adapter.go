package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

// IdentityAdapter implements the IdentityRepository interface
type IdentityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIdentityAdapter creates a new identity adapter
func NewIdentityAdapter(client *postgres.Client) repositories.IdentityRepository {
	return &IdentityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var identityColumns = []interface{}{
	"id", "username", "email", "first_name", "last_name",
	"password_hash", "is_active", "is_staff", "date_joined",
}

func scanIdentity(row interface{ Scan(...any) error }) (*entities.Identity, error) {
	identity := &entities.Identity{}
	err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.FirstName,
		&identity.LastName,
		&identity.PasswordHash,
		&identity.IsActive,
		&identity.IsStaff,
		&identity.DateJoined,
	)
	return identity, err
}

// Create creates a new identity
func (a *IdentityAdapter) Create(ctx context.Context, identity *entities.Identity) error {
	defer a.client.RecordQuery(ctx, "identities.create", time.Now())

	if identity.DateJoined.IsZero() {
		identity.DateJoined = time.Now()
	}

	record := goqu.Record{
		"username":      identity.Username,
		"email":         identity.Email,
		"first_name":    identity.FirstName,
		"last_name":     identity.LastName,
		"password_hash": identity.PasswordHash,
		"is_active":     identity.IsActive,
		"is_staff":      identity.IsStaff,
		"date_joined":   identity.DateJoined,
	}

	query, args, err := a.db.Insert("identities").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&identity.ID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewDuplicateError("A user with that username already exists.")
		}
		return apperrors.NewInternalError("failed to create identity", err)
	}

	return nil
}

func (a *IdentityAdapter) getBy(ctx context.Context, where goqu.Ex, describe string) (*entities.Identity, error) {
	defer a.client.RecordQuery(ctx, "identities.get", time.Now())

	query, args, err := a.db.Select(identityColumns...).From("identities").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	identity, err := scanIdentity(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("identity %s not found", describe))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get identity", err)
	}
	return identity, nil
}

// GetByID retrieves an identity by ID
func (a *IdentityAdapter) GetByID(ctx context.Context, id int64) (*entities.Identity, error) {
	return a.getBy(ctx, goqu.Ex{"id": id}, fmt.Sprintf("with id %d", id))
}

// GetByUsername retrieves an identity by username
func (a *IdentityAdapter) GetByUsername(ctx context.Context, username string) (*entities.Identity, error) {
	return a.getBy(ctx, goqu.Ex{"username": username}, fmt.Sprintf("%q", username))
}

// UpdateNames updates first name, last name and email
func (a *IdentityAdapter) UpdateNames(ctx context.Context, identity *entities.Identity) error {
	return a.update(ctx, identity.ID, goqu.Record{
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"email":      identity.Email,
	})
}

// SetActive flips the active flag
func (a *IdentityAdapter) SetActive(ctx context.Context, id int64, active bool) error {
	return a.update(ctx, id, goqu.Record{"is_active": active})
}

// SetStaff flips the staff flag
func (a *IdentityAdapter) SetStaff(ctx context.Context, id int64, staff bool) error {
	return a.update(ctx, id, goqu.Record{"is_staff": staff})
}

func (a *IdentityAdapter) update(ctx context.Context, id int64, record goqu.Record) error {
	defer a.client.RecordQuery(ctx, "identities.update", time.Now())

	query, args, err := a.db.Update("identities").Set(record).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update identity", err)
	}

	return expectAffected(result, "identity", id)
}
