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

// ContactAdapter implements the ContactRepository interface
type ContactAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContactAdapter creates a new contact message adapter
func NewContactAdapter(client *postgres.Client) repositories.ContactRepository {
	return &ContactAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var contactColumns = []interface{}{"id", "name", "phone", "message", "created_at"}

func scanContact(row interface{ Scan(...any) error }) (*entities.ContactMessage, error) {
	message := &entities.ContactMessage{}
	err := row.Scan(&message.ID, &message.Name, &message.Phone, &message.Message, &message.CreatedAt)
	return message, err
}

// Create stores a contact message
func (a *ContactAdapter) Create(ctx context.Context, message *entities.ContactMessage) error {
	defer a.client.RecordQuery(ctx, "contact_messages.create", time.Now())

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query, args, err := a.db.Insert("contact_messages").
		Rows(goqu.Record{
			"name":       message.Name,
			"phone":      message.Phone,
			"message":    message.Message,
			"created_at": message.CreatedAt,
		}).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&message.ID); err != nil {
		return apperrors.NewInternalError("failed to create contact message", err)
	}
	return nil
}

// GetByID retrieves a contact message by ID
func (a *ContactAdapter) GetByID(ctx context.Context, id int64) (*entities.ContactMessage, error) {
	defer a.client.RecordQuery(ctx, "contact_messages.get", time.Now())

	query, args, err := a.db.From("contact_messages").Select(contactColumns...).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	message, err := scanContact(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("contact message", id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get contact message", err)
	}
	return message, nil
}

// List retrieves contact messages, newest first
func (a *ContactAdapter) List(ctx context.Context, page pagination.Page) ([]*entities.ContactMessage, int64, error) {
	defer a.client.RecordQuery(ctx, "contact_messages.list", time.Now())

	ds := a.db.From("contact_messages").Select(contactColumns...)

	count, err := countRows(ctx, a.client.DB(), ds, "contact messages")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("id").Desc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list contact messages", err)
	}
	defer rows.Close()

	var messages []*entities.ContactMessage
	for rows.Next() {
		message, err := scanContact(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan contact message", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate contact messages", err)
	}

	return messages, count, nil
}

// Delete deletes a contact message
func (a *ContactAdapter) Delete(ctx context.Context, id int64) error {
	defer a.client.RecordQuery(ctx, "contact_messages.delete", time.Now())

	query, args, err := a.db.Delete("contact_messages").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete contact message", err)
	}
	return expectAffected(result, "contact message", id)
}
