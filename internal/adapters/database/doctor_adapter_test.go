package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

var doctorRowColumns = []string{"id", "identity_id", "image", "fee", "meet_link", "username", "first_name", "last_name"}

func linkRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"doctor_id", "id", "name", "slug"})
}

func TestDoctorAdapter_Create_WritesLinksInTransaction(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "doctors" .* RETURNING "id"`).WillReturnRows(idResult(5))
	mock.ExpectExec(`INSERT INTO "doctor_designations" \("designation_id", "doctor_id"\) VALUES \(2, 5\) ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "doctor_available_times" \("available_time_id", "doctor_id"\) VALUES \(1, 5\), \(3, 5\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	doctor := &entities.Doctor{
		IdentityID:     8,
		Fee:            500,
		Designations:   []entities.Designation{{ID: 2}},
		AvailableTimes: []entities.AvailableTime{{ID: 1}, {ID: 3}},
	}
	require.NoError(t, adapter.Create(context.Background(), doctor))
	assert.Equal(t, int64(5), doctor.ID)
}

func TestDoctorAdapter_Create_SecondRegistrationIsDuplicate(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "doctors"`).WillReturnError(uniqueViolation)
	mock.ExpectRollback()

	err := adapter.Create(context.Background(), &entities.Doctor{IdentityID: 8})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeDuplicate))
}

func TestDoctorAdapter_Create_UnknownCatalogReference(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "doctors"`).WillReturnRows(idResult(5))
	mock.ExpectExec(`INSERT INTO "doctor_specialisations"`).WillReturnError(foreignKeyViolation)
	mock.ExpectRollback()

	err := adapter.Create(context.Background(), &entities.Doctor{
		IdentityID:      8,
		Specialisations: []entities.Specialisation{{ID: 99}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
}

func TestDoctorAdapter_GetByID_LoadsLinks(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectQuery(`FROM "doctors" AS "d" INNER JOIN "identities" AS "i" .*"d"\."id" = 5`).
		WillReturnRows(sqlmock.NewRows(doctorRowColumns).AddRow(int64(5), int64(8), "", 500, nil, "drwho", "John", "Smith"))
	mock.ExpectQuery(`FROM "doctor_designations"`).
		WillReturnRows(linkRows().AddRow(int64(5), int64(2), "Consultant", "consultant"))
	mock.ExpectQuery(`FROM "doctor_specialisations"`).
		WillReturnRows(linkRows())
	mock.ExpectQuery(`FROM "doctor_available_times"`).
		WillReturnRows(linkRows().AddRow(int64(5), int64(1), "09:00 - 10:00", ""))

	doctor, err := adapter.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 500, doctor.Fee)
	assert.Empty(t, doctor.MeetLink)
	assert.Equal(t, []entities.Designation{{ID: 2, Name: "Consultant", Slug: "consultant"}}, doctor.Designations)
	assert.Empty(t, doctor.Specialisations)
	assert.Equal(t, "09:00 - 10:00", doctor.AvailableTimes[0].Time)
}

func TestDoctorAdapter_List_SpecialisationBySlugOrID(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectQuery(`SELECT COUNT\(\*\) .*"d"\."id" IN \(SELECT "ds"\."doctor_id" .*"s"\."slug" = '7'.*"s"\."id" = 7`).
		WillReturnRows(countRowsResult(0))
	mock.ExpectQuery(`SELECT "d"\."id".*ORDER BY "d"\."id" ASC`).
		WillReturnRows(sqlmock.NewRows(doctorRowColumns))

	doctors, count, err := adapter.List(context.Background(), repositories.DoctorFilter{Specialisation: "7"}, pagination.Default())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, doctors)
}

func TestDoctorAdapter_Delete(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewDoctorAdapter(client)

	mock.ExpectExec(`DELETE FROM "doctors" WHERE \("id" = 5\)`).WillReturnError(errors.New("connection reset"))

	err := adapter.Delete(context.Background(), 5)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeInternal))
}
