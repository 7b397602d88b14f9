package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// selectAppointments joins each appointment with the identities of its
// patient and doctor
func (a *AppointmentAdapter) selectAppointments() *goqu.SelectDataset {
	return a.db.From(goqu.T("appointments").As("a")).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("a.patient_id")))).
		Join(goqu.T("doctors").As("d"), goqu.On(goqu.I("d.id").Eq(goqu.I("a.doctor_id")))).
		Select(
			"a.id", "a.patient_id", "a.doctor_id", "a.time_id",
			"a.appointment_type", "a.appointment_status", "a.symptoms", "a.cancel",
			"a.created_at", "a.updated_at",
			goqu.I("p.identity_id").As("patient_identity_id"),
			goqu.I("d.identity_id").As("doctor_identity_id"),
		)
}

func scanAppointment(row interface{ Scan(...any) error }) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	err := row.Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.TimeID,
		&appointment.Type,
		&appointment.Status,
		&appointment.Symptoms,
		&appointment.Cancel,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.PatientIdentityID,
		&appointment.DoctorIdentityID,
	)
	return appointment, err
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	defer a.client.RecordQuery(ctx, "appointments.create", time.Now())

	record := goqu.Record{
		"patient_id":         appointment.PatientID,
		"doctor_id":          appointment.DoctorID,
		"time_id":            appointment.TimeID,
		"appointment_type":   appointment.Type,
		"appointment_status": appointment.Status,
		"symptoms":           appointment.Symptoms,
		"cancel":             appointment.Cancel,
		"created_at":         appointment.CreatedAt,
		"updated_at":         appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&appointment.ID); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("appointment references a patient, doctor or time that does not exist")
		}
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	defer a.client.RecordQuery(ctx, "appointments.get", time.Now())

	query, args, err := a.selectAppointments().Where(goqu.I("a.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("appointment", id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// List retrieves appointments matching filter, newest first
func (a *AppointmentAdapter) List(ctx context.Context, filter repositories.AppointmentFilter, page pagination.Page) ([]*entities.Appointment, int64, error) {
	defer a.client.RecordQuery(ctx, "appointments.list", time.Now())

	ds := a.selectAppointments()

	if filter.VisibleTo > 0 {
		ds = ds.Where(goqu.Or(
			goqu.I("p.identity_id").Eq(filter.VisibleTo),
			goqu.I("d.identity_id").Eq(filter.VisibleTo),
		))
	}
	if filter.PatientID != nil {
		ds = ds.Where(goqu.I("a.patient_id").Eq(*filter.PatientID))
	}
	if filter.DoctorID != nil {
		ds = ds.Where(goqu.I("a.doctor_id").Eq(*filter.DoctorID))
	}
	if filter.Status != "" {
		ds = ds.Where(goqu.I("a.appointment_status").Eq(filter.Status))
	}
	if filter.Type != "" {
		ds = ds.Where(goqu.I("a.appointment_type").Eq(filter.Type))
	}
	if filter.Cancel != nil {
		ds = ds.Where(goqu.I("a.cancel").Eq(*filter.Cancel))
	}

	count, err := countRows(ctx, a.client.DB(), ds, "appointments")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("a.id").Desc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, count, nil
}

// Update updates an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	defer a.client.RecordQuery(ctx, "appointments.update", time.Now())

	appointment.UpdatedAt = time.Now()

	record := goqu.Record{
		"time_id":            appointment.TimeID,
		"appointment_type":   appointment.Type,
		"appointment_status": appointment.Status,
		"symptoms":           appointment.Symptoms,
		"cancel":             appointment.Cancel,
		"updated_at":         appointment.UpdatedAt,
	}

	query, args, err := a.db.Update("appointments").
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("time slot does not exist")
		}
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	return expectAffected(result, "appointment", appointment.ID)
}

// Delete deletes an appointment
func (a *AppointmentAdapter) Delete(ctx context.Context, id int64) error {
	defer a.client.RecordQuery(ctx, "appointments.delete", time.Now())

	query, args, err := a.db.Delete("appointments").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete appointment", err)
	}

	return expectAffected(result, "appointment", id)
}
