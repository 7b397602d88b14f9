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

// catalogTable maps one reference data entity onto its table
type catalogTable[T repositories.CatalogItem] struct {
	table   string
	entity  string
	columns []interface{}
	id      func(*T) *int64
	record  func(*T) goqu.Record
	scan    func(*T) []any
}

var designationTable = catalogTable[entities.Designation]{
	table:   "designations",
	entity:  "designation",
	columns: []interface{}{"id", "name", "slug"},
	id:      func(d *entities.Designation) *int64 { return &d.ID },
	record: func(d *entities.Designation) goqu.Record {
		return goqu.Record{"name": d.Name, "slug": d.Slug}
	},
	scan: func(d *entities.Designation) []any { return []any{&d.ID, &d.Name, &d.Slug} },
}

var specialisationTable = catalogTable[entities.Specialisation]{
	table:   "specialisations",
	entity:  "specialisation",
	columns: []interface{}{"id", "name", "slug"},
	id:      func(s *entities.Specialisation) *int64 { return &s.ID },
	record: func(s *entities.Specialisation) goqu.Record {
		return goqu.Record{"name": s.Name, "slug": s.Slug}
	},
	scan: func(s *entities.Specialisation) []any { return []any{&s.ID, &s.Name, &s.Slug} },
}

var availableTimeTable = catalogTable[entities.AvailableTime]{
	table:   "available_times",
	entity:  "available time",
	columns: []interface{}{"id", "label"},
	id:      func(t *entities.AvailableTime) *int64 { return &t.ID },
	record: func(t *entities.AvailableTime) goqu.Record {
		return goqu.Record{"label": t.Time}
	},
	scan: func(t *entities.AvailableTime) []any { return []any{&t.ID, &t.Time} },
}

var hospitalServiceTable = catalogTable[entities.HospitalService]{
	table:   "hospital_services",
	entity:  "service",
	columns: []interface{}{"id", "name", "description", "image"},
	id:      func(s *entities.HospitalService) *int64 { return &s.ID },
	record: func(s *entities.HospitalService) goqu.Record {
		return goqu.Record{"name": s.Name, "description": s.Description, "image": s.Image}
	},
	scan: func(s *entities.HospitalService) []any { return []any{&s.ID, &s.Name, &s.Description, &s.Image} },
}

// CatalogAdapter implements CatalogRepository for one reference data table
type CatalogAdapter[T repositories.CatalogItem] struct {
	client *postgres.Client
	db     *goqu.Database
	t      catalogTable[T]
}

func newCatalogAdapter[T repositories.CatalogItem](client *postgres.Client, t catalogTable[T]) *CatalogAdapter[T] {
	return &CatalogAdapter[T]{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		t:      t,
	}
}

// NewDesignationAdapter creates the designation store
func NewDesignationAdapter(client *postgres.Client) repositories.DesignationRepository {
	return newCatalogAdapter(client, designationTable)
}

// NewSpecialisationAdapter creates the specialisation store
func NewSpecialisationAdapter(client *postgres.Client) repositories.SpecialisationRepository {
	return newCatalogAdapter(client, specialisationTable)
}

// NewAvailableTimeAdapter creates the available time store
func NewAvailableTimeAdapter(client *postgres.Client) repositories.AvailableTimeRepository {
	return newCatalogAdapter(client, availableTimeTable)
}

// NewHospitalServiceAdapter creates the hospital service store
func NewHospitalServiceAdapter(client *postgres.Client) repositories.HospitalServiceRepository {
	return newCatalogAdapter(client, hospitalServiceTable)
}

func (a *CatalogAdapter[T]) duplicate() error {
	return apperrors.NewDuplicateError(fmt.Sprintf("%s with this slug already exists.", a.t.entity))
}

// Create creates an item
func (a *CatalogAdapter[T]) Create(ctx context.Context, item *T) error {
	defer a.client.RecordQuery(ctx, a.t.table+".create", time.Now())

	query, args, err := a.db.Insert(a.t.table).Rows(a.t.record(item)).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(a.t.id(item)); err != nil {
		if isUniqueViolation(err) {
			return a.duplicate()
		}
		return apperrors.NewInternalError(fmt.Sprintf("failed to create %s", a.t.entity), err)
	}
	return nil
}

// GetByID retrieves an item by ID
func (a *CatalogAdapter[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	defer a.client.RecordQuery(ctx, a.t.table+".get", time.Now())

	query, args, err := a.db.Select(a.t.columns...).From(a.t.table).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item := new(T)
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(a.t.scan(item)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(a.t.entity, id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to get %s", a.t.entity), err)
	}
	return item, nil
}

// List lists items ordered by ID
func (a *CatalogAdapter[T]) List(ctx context.Context, page pagination.Page) ([]*T, int64, error) {
	defer a.client.RecordQuery(ctx, a.t.table+".list", time.Now())

	ds := a.db.Select(a.t.columns...).From(a.t.table)

	count, err := countRows(ctx, a.client.DB(), ds, a.t.table)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("id").Asc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(fmt.Sprintf("failed to list %s", a.t.table), err)
	}
	defer rows.Close()

	var items []*T
	for rows.Next() {
		item := new(T)
		if err := rows.Scan(a.t.scan(item)...); err != nil {
			return nil, 0, apperrors.NewInternalError(fmt.Sprintf("failed to scan %s", a.t.entity), err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError(fmt.Sprintf("failed to iterate %s", a.t.table), err)
	}
	return items, count, nil
}

// Update updates an item
func (a *CatalogAdapter[T]) Update(ctx context.Context, item *T) error {
	defer a.client.RecordQuery(ctx, a.t.table+".update", time.Now())

	id := *a.t.id(item)
	query, args, err := a.db.Update(a.t.table).Set(a.t.record(item)).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return a.duplicate()
		}
		return apperrors.NewInternalError(fmt.Sprintf("failed to update %s", a.t.entity), err)
	}
	return expectAffected(result, a.t.entity, id)
}

// Delete deletes an item
func (a *CatalogAdapter[T]) Delete(ctx context.Context, id int64) error {
	defer a.client.RecordQuery(ctx, a.t.table+".delete", time.Now())

	query, args, err := a.db.Delete(a.t.table).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to delete %s", a.t.entity), err)
	}
	return expectAffected(result, a.t.entity, id)
}
