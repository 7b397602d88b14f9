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
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// ProfileAdapter implements the ProfileRepository interface
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *ProfileAdapter) selectProfiles() *goqu.SelectDataset {
	return a.db.From(goqu.T("user_profiles").As("up")).
		Join(goqu.T("identities").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("up.identity_id")))).
		Select(
			"up.id", "up.identity_id", "up.role", "up.bio", "up.address",
			"up.date_of_birth", "up.profile_picture", "up.created_at", "up.updated_at",
			"i.username", "i.email", "i.first_name", "i.last_name", "i.is_staff",
		)
}

func scanProfile(row interface{ Scan(...any) error }) (*entities.UserProfile, error) {
	profile := &entities.UserProfile{Identity: &entities.Identity{}}
	var dob sql.NullTime
	err := row.Scan(
		&profile.ID,
		&profile.IdentityID,
		&profile.Role,
		&profile.Bio,
		&profile.Address,
		&dob,
		&profile.ProfilePicture,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.Identity.Username,
		&profile.Identity.Email,
		&profile.Identity.FirstName,
		&profile.Identity.LastName,
		&profile.Identity.IsStaff,
	)
	if err != nil {
		return nil, err
	}
	profile.Identity.ID = profile.IdentityID
	if dob.Valid {
		profile.DateOfBirth = &dob.Time
	}
	return profile, nil
}

func (a *ProfileAdapter) getOne(ctx context.Context, where goqu.Ex, describe string) (*entities.UserProfile, error) {
	defer a.client.RecordQuery(ctx, "user_profiles.get", time.Now())

	query, args, err := a.selectProfiles().Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profile, err := scanProfile(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile %s not found", describe))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}
	return profile, nil
}

// EnsureForIdentity creates the profile unless one exists, then returns it
func (a *ProfileAdapter) EnsureForIdentity(ctx context.Context, identityID int64, role entities.Role) (*entities.UserProfile, error) {
	defer a.client.RecordQuery(ctx, "user_profiles.ensure", time.Now())

	now := time.Now()
	query, args, err := a.db.Insert("user_profiles").
		Rows(goqu.Record{
			"identity_id": identityID,
			"role":        role,
			"created_at":  now,
			"updated_at":  now,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return nil, notFound("identity", identityID)
		}
		return nil, apperrors.NewInternalError("failed to create profile", err)
	}

	return a.GetByIdentityID(ctx, identityID)
}

// GetByID retrieves a profile by ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id int64) (*entities.UserProfile, error) {
	return a.getOne(ctx, goqu.Ex{"up.id": id}, fmt.Sprintf("with id %d", id))
}

// GetByIdentityID retrieves the profile of an identity
func (a *ProfileAdapter) GetByIdentityID(ctx context.Context, identityID int64) (*entities.UserProfile, error) {
	return a.getOne(ctx, goqu.Ex{"up.identity_id": identityID}, fmt.Sprintf("for identity %d", identityID))
}

// List lists profiles
func (a *ProfileAdapter) List(ctx context.Context, filter repositories.ProfileFilter, page pagination.Page) ([]*entities.UserProfile, int64, error) {
	defer a.client.RecordQuery(ctx, "user_profiles.list", time.Now())

	ds := a.selectProfiles()
	if filter.IdentityID != nil {
		ds = ds.Where(goqu.I("up.identity_id").Eq(*filter.IdentityID))
	}

	count, err := countRows(ctx, a.client.DB(), ds, "profiles")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("up.id").Asc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list profiles", err)
	}
	defer rows.Close()

	var profiles []*entities.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan profile", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate profiles", err)
	}

	return profiles, count, nil
}

// Update updates the personal details of a profile
func (a *ProfileAdapter) Update(ctx context.Context, profile *entities.UserProfile) error {
	defer a.client.RecordQuery(ctx, "user_profiles.update", time.Now())

	profile.UpdatedAt = time.Now()
	var dob interface{}
	if profile.DateOfBirth != nil {
		dob = profile.DateOfBirth.Format("2006-01-02")
	}

	query, args, err := a.db.Update("user_profiles").
		Set(goqu.Record{
			"bio":             profile.Bio,
			"address":         profile.Address,
			"date_of_birth":   dob,
			"profile_picture": profile.ProfilePicture,
			"updated_at":      profile.UpdatedAt,
		}).
		Where(goqu.Ex{"id": profile.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile", err)
	}

	return expectAffected(result, "profile", profile.ID)
}

// SetRole changes the role on an identity's profile
func (a *ProfileAdapter) SetRole(ctx context.Context, identityID int64, role entities.Role) error {
	defer a.client.RecordQuery(ctx, "user_profiles.set_role", time.Now())

	query, args, err := a.db.Update("user_profiles").
		Set(goqu.Record{"role": role, "updated_at": time.Now()}).
		Where(goqu.Ex{"identity_id": identityID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile role", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile for identity %d not found", identityID))
	}
	return nil
}
