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

// DoctorAdapter implements the DoctorRepository interface. Designations,
// specialisations and available times live in join tables written in the
// same transaction as the doctor row.
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

type doctorLink struct {
	table  string
	column string
}

var (
	designationLink    = doctorLink{table: "doctor_designations", column: "designation_id"}
	specialisationLink = doctorLink{table: "doctor_specialisations", column: "specialisation_id"}
	availableTimeLink  = doctorLink{table: "doctor_available_times", column: "available_time_id"}
)

func (a *DoctorAdapter) selectDoctors() *goqu.SelectDataset {
	return a.db.From(goqu.T("doctors").As("d")).
		Join(goqu.T("identities").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("d.identity_id")))).
		Select("d.id", "d.identity_id", "d.image", "d.fee", "d.meet_link", "i.username", "i.first_name", "i.last_name")
}

func scanDoctor(row interface{ Scan(...any) error }) (*entities.Doctor, error) {
	doctor := &entities.Doctor{Identity: &entities.Identity{}}
	var meetLink sql.NullString
	err := row.Scan(
		&doctor.ID,
		&doctor.IdentityID,
		&doctor.Image,
		&doctor.Fee,
		&meetLink,
		&doctor.Identity.Username,
		&doctor.Identity.FirstName,
		&doctor.Identity.LastName,
	)
	if err != nil {
		return nil, err
	}
	doctor.Identity.ID = doctor.IdentityID
	doctor.MeetLink = meetLink.String
	return doctor, nil
}

// Create creates a doctor and its links in one transaction
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	defer a.client.RecordQuery(ctx, "doctors.create", time.Now())

	query, args, err := a.db.Insert("doctors").Rows(goqu.Record{
		"identity_id": doctor.IdentityID,
		"image":       doctor.Image,
		"fee":         doctor.Fee,
		"meet_link":   nullString(doctor.MeetLink),
	}).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	return a.mapWriteError(a.client.WithTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&doctor.ID); err != nil {
			return err
		}
		return a.writeLinks(ctx, tx, doctor)
	}))
}

// Update updates a doctor and replaces its links
func (a *DoctorAdapter) Update(ctx context.Context, doctor *entities.Doctor) error {
	defer a.client.RecordQuery(ctx, "doctors.update", time.Now())

	query, args, err := a.db.Update("doctors").Set(goqu.Record{
		"image":     doctor.Image,
		"fee":       doctor.Fee,
		"meet_link": nullString(doctor.MeetLink),
	}).Where(goqu.Ex{"id": doctor.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	return a.mapWriteError(a.client.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if err := expectAffected(result, "doctor", doctor.ID); err != nil {
			return err
		}
		for _, link := range []doctorLink{designationLink, specialisationLink, availableTimeLink} {
			del, delArgs, err := a.db.Delete(link.table).Where(goqu.Ex{"doctor_id": doctor.ID}).ToSQL()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
				return err
			}
		}
		return a.writeLinks(ctx, tx, doctor)
	}))
}

func (a *DoctorAdapter) mapWriteError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case isUniqueViolation(err):
		return apperrors.NewDuplicateError("You already have a doctor account.")
	case isForeignKeyViolation(err):
		return apperrors.NewValidationError("designation, specialisation or available time does not exist")
	}
	return apperrors.NewInternalError("failed to save doctor", err)
}

func (a *DoctorAdapter) writeLinks(ctx context.Context, tx *sql.Tx, doctor *entities.Doctor) error {
	ids := map[doctorLink][]int64{}
	for _, d := range doctor.Designations {
		ids[designationLink] = append(ids[designationLink], d.ID)
	}
	for _, s := range doctor.Specialisations {
		ids[specialisationLink] = append(ids[specialisationLink], s.ID)
	}
	for _, t := range doctor.AvailableTimes {
		ids[availableTimeLink] = append(ids[availableTimeLink], t.ID)
	}

	for _, link := range []doctorLink{designationLink, specialisationLink, availableTimeLink} {
		if len(ids[link]) == 0 {
			continue
		}
		rows := make([]interface{}, 0, len(ids[link]))
		for _, id := range ids[link] {
			rows = append(rows, goqu.Record{"doctor_id": doctor.ID, link.column: id})
		}
		query, args, err := a.db.Insert(link.table).Rows(rows...).OnConflict(goqu.DoNothing()).ToSQL()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

func (a *DoctorAdapter) getOne(ctx context.Context, where goqu.Ex, describe string) (*entities.Doctor, error) {
	defer a.client.RecordQuery(ctx, "doctors.get", time.Now())

	query, args, err := a.selectDoctors().Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", describe))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}

	if err := a.loadLinks(ctx, []*entities.Doctor{doctor}); err != nil {
		return nil, err
	}
	return doctor, nil
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	return a.getOne(ctx, goqu.Ex{"d.id": id}, fmt.Sprintf("with id %d", id))
}

// GetByIdentityID retrieves the doctor of an identity
func (a *DoctorAdapter) GetByIdentityID(ctx context.Context, identityID int64) (*entities.Doctor, error) {
	return a.getOne(ctx, goqu.Ex{"d.identity_id": identityID}, fmt.Sprintf("for identity %d", identityID))
}

// List lists doctors matching filter
func (a *DoctorAdapter) List(ctx context.Context, filter repositories.DoctorFilter, page pagination.Page) ([]*entities.Doctor, int64, error) {
	defer a.client.RecordQuery(ctx, "doctors.list", time.Now())

	ds := a.selectDoctors()

	if filter.Specialisation != "" {
		ds = ds.Where(goqu.I("d.id").In(
			a.db.From(goqu.T("doctor_specialisations").As("ds")).
				Join(goqu.T("specialisations").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("ds.specialisation_id")))).
				Select("ds.doctor_id").
				Where(slugOrID("s", filter.Specialisation)),
		))
	}
	if filter.Designation != "" {
		ds = ds.Where(goqu.I("d.id").In(
			a.db.From(goqu.T("doctor_designations").As("dd")).
				Join(goqu.T("designations").As("g"), goqu.On(goqu.I("g.id").Eq(goqu.I("dd.designation_id")))).
				Select("dd.doctor_id").
				Where(slugOrID("g", filter.Designation)),
		))
	}
	if filter.AvailableTimeID != nil {
		ds = ds.Where(goqu.I("d.id").In(
			a.db.From("doctor_available_times").
				Select("doctor_id").
				Where(goqu.Ex{"available_time_id": *filter.AvailableTimeID}),
		))
	}
	if filter.Fee != nil {
		ds = ds.Where(goqu.I("d.fee").Eq(*filter.Fee))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("i.first_name").ILike(pattern),
			goqu.I("i.last_name").ILike(pattern),
			goqu.I("i.username").ILike(pattern),
		))
	}

	count, err := countRows(ctx, a.client.DB(), ds, "doctors")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("d.id").Asc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	var doctors []*entities.Doctor
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate doctors", err)
	}
	rows.Close()

	if err := a.loadLinks(ctx, doctors); err != nil {
		return nil, 0, err
	}
	return doctors, count, nil
}

// loadLinks fills the designation, specialisation and available time sets
// of doctors with one query per link table
func (a *DoctorAdapter) loadLinks(ctx context.Context, doctors []*entities.Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	byID := make(map[int64]*entities.Doctor, len(doctors))
	ids := make([]int64, 0, len(doctors))
	for _, d := range doctors {
		d.Designations = []entities.Designation{}
		d.Specialisations = []entities.Specialisation{}
		d.AvailableTimes = []entities.AvailableTime{}
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}

	load := func(ds *goqu.SelectDataset, what string, add func(d *entities.Doctor, id int64, first, second string)) error {
		query, args, err := ds.ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build query", err)
		}
		rows, err := a.client.DB().QueryContext(ctx, query, args...)
		if err != nil {
			return apperrors.NewInternalError(fmt.Sprintf("failed to load doctor %s", what), err)
		}
		defer rows.Close()
		for rows.Next() {
			var doctorID, id int64
			var first, second string
			if err := rows.Scan(&doctorID, &id, &first, &second); err != nil {
				return apperrors.NewInternalError(fmt.Sprintf("failed to scan doctor %s", what), err)
			}
			if d, ok := byID[doctorID]; ok {
				add(d, id, first, second)
			}
		}
		return rows.Err()
	}

	err := load(a.db.From(goqu.T("doctor_designations").As("l")).
		Join(goqu.T("designations").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.designation_id")))).
		Select("l.doctor_id", "c.id", "c.name", "c.slug").
		Where(goqu.I("l.doctor_id").In(ids)).
		Order(goqu.I("c.id").Asc()),
		"designations",
		func(d *entities.Doctor, id int64, name, slug string) {
			d.Designations = append(d.Designations, entities.Designation{ID: id, Name: name, Slug: slug})
		})
	if err != nil {
		return err
	}

	err = load(a.db.From(goqu.T("doctor_specialisations").As("l")).
		Join(goqu.T("specialisations").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.specialisation_id")))).
		Select("l.doctor_id", "c.id", "c.name", "c.slug").
		Where(goqu.I("l.doctor_id").In(ids)).
		Order(goqu.I("c.id").Asc()),
		"specialisations",
		func(d *entities.Doctor, id int64, name, slug string) {
			d.Specialisations = append(d.Specialisations, entities.Specialisation{ID: id, Name: name, Slug: slug})
		})
	if err != nil {
		return err
	}

	return load(a.db.From(goqu.T("doctor_available_times").As("l")).
		Join(goqu.T("available_times").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("l.available_time_id")))).
		Select("l.doctor_id", "c.id", "c.label", goqu.L("''")).
		Where(goqu.I("l.doctor_id").In(ids)).
		Order(goqu.I("c.id").Asc()),
		"available times",
		func(d *entities.Doctor, id int64, label, _ string) {
			d.AvailableTimes = append(d.AvailableTimes, entities.AvailableTime{ID: id, Time: label})
		})
}

// Delete deletes a doctor. Links and appointments cascade.
func (a *DoctorAdapter) Delete(ctx context.Context, id int64) error {
	defer a.client.RecordQuery(ctx, "doctors.delete", time.Now())

	query, args, err := a.db.Delete("doctors").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete doctor", err)
	}

	return expectAffected(result, "doctor", id)
}
