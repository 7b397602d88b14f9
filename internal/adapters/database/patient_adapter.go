package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *PatientAdapter) selectPatients() *goqu.SelectDataset {
	return a.db.From(goqu.T("patients").As("p")).
		Join(goqu.T("identities").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("p.identity_id")))).
		Select("p.id", "p.identity_id", "p.image", "p.phone", "i.username", "i.first_name", "i.last_name")
}

func scanPatient(row interface{ Scan(...any) error }) (*entities.Patient, error) {
	patient := &entities.Patient{Identity: &entities.Identity{}}
	err := row.Scan(
		&patient.ID,
		&patient.IdentityID,
		&patient.Image,
		&patient.Phone,
		&patient.Identity.Username,
		&patient.Identity.FirstName,
		&patient.Identity.LastName,
	)
	if err != nil {
		return nil, err
	}
	patient.Identity.ID = patient.IdentityID
	return patient, nil
}

func (a *PatientAdapter) getOne(ctx context.Context, where exp.Expression, describe string) (*entities.Patient, error) {
	defer a.client.RecordQuery(ctx, "patients.get", time.Now())

	query, args, err := a.selectPatients().Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	patient, err := scanPatient(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient %s not found", describe))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}
	return patient, nil
}

func (a *PatientAdapter) insert(ctx context.Context, patient *entities.Patient, ignoreConflict bool) (bool, error) {
	ds := a.db.Insert("patients").Rows(goqu.Record{
		"identity_id": patient.IdentityID,
		"image":       patient.Image,
		"phone":       patient.Phone,
	})
	if ignoreConflict {
		ds = ds.OnConflict(goqu.DoNothing())
	}

	query, args, err := ds.Returning("id").ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build insert query", err)
	}

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&patient.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows) && ignoreConflict:
		return false, nil
	case isUniqueViolation(err):
		return false, apperrors.NewDuplicateError("you already have a patient record")
	case isForeignKeyViolation(err):
		return false, notFound("identity", patient.IdentityID)
	case err != nil:
		return false, apperrors.NewInternalError("failed to create patient", err)
	}
	return true, nil
}

// Create creates a patient
func (a *PatientAdapter) Create(ctx context.Context, patient *entities.Patient) error {
	defer a.client.RecordQuery(ctx, "patients.create", time.Now())
	_, err := a.insert(ctx, patient, false)
	return err
}

// EnsureForIdentity creates the patient unless one exists, then returns it
func (a *PatientAdapter) EnsureForIdentity(ctx context.Context, identityID int64) (*entities.Patient, error) {
	defer a.client.RecordQuery(ctx, "patients.ensure", time.Now())

	if _, err := a.insert(ctx, &entities.Patient{IdentityID: identityID}, true); err != nil {
		return nil, err
	}
	return a.GetByIdentityID(ctx, identityID)
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id int64) (*entities.Patient, error) {
	return a.getOne(ctx, goqu.I("p.id").Eq(id), fmt.Sprintf("with id %d", id))
}

// GetByIdentityID retrieves the patient of an identity
func (a *PatientAdapter) GetByIdentityID(ctx context.Context, identityID int64) (*entities.Patient, error) {
	return a.getOne(ctx, goqu.I("p.identity_id").Eq(identityID), fmt.Sprintf("for identity %d", identityID))
}

// List lists patients. Search matches the id exactly or the username or
// phone as a substring.
func (a *PatientAdapter) List(ctx context.Context, filter repositories.PatientFilter, page pagination.Page) ([]*entities.Patient, int64, error) {
	defer a.client.RecordQuery(ctx, "patients.list", time.Now())

	ds := a.selectPatients()
	if filter.Phone != "" {
		ds = ds.Where(goqu.I("p.phone").Eq(filter.Phone))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		conds := []exp.Expression{
			goqu.I("i.username").ILike(pattern),
			goqu.I("p.phone").ILike(pattern),
		}
		if id, err := strconv.ParseInt(filter.Search, 10, 64); err == nil {
			conds = append(conds, goqu.I("p.id").Eq(id))
		}
		ds = ds.Where(goqu.Or(conds...))
	}

	count, err := countRows(ctx, a.client.DB(), ds, "patients")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("p.id").Asc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list patients", err)
	}
	defer rows.Close()

	var patients []*entities.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan patient", err)
		}
		patients = append(patients, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate patients", err)
	}

	return patients, count, nil
}

// Update updates phone and image
func (a *PatientAdapter) Update(ctx context.Context, patient *entities.Patient) error {
	defer a.client.RecordQuery(ctx, "patients.update", time.Now())

	query, args, err := a.db.Update("patients").
		Set(goqu.Record{"phone": patient.Phone, "image": patient.Image}).
		Where(goqu.Ex{"id": patient.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update patient", err)
	}

	return expectAffected(result, "patient", patient.ID)
}
