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

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *ReviewAdapter) selectReviews() *goqu.SelectDataset {
	return a.db.From(goqu.T("reviews").As("r")).
		Join(goqu.T("patients").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("r.reviewer_id")))).
		Select(
			"r.id", "r.reviewer_id", "r.doctor_id", "r.body", "r.rating", "r.created_on",
			goqu.I("p.identity_id").As("reviewer_identity_id"),
		)
}

func scanReview(row interface{ Scan(...any) error }) (*entities.Review, error) {
	review := &entities.Review{}
	err := row.Scan(
		&review.ID,
		&review.ReviewerID,
		&review.DoctorID,
		&review.Body,
		&review.Rating,
		&review.CreatedOn,
		&review.ReviewerIdentityID,
	)
	return review, err
}

// Create creates a new review. Reviews are not unique per doctor and reviewer.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	defer a.client.RecordQuery(ctx, "reviews.create", time.Now())

	if review.CreatedOn.IsZero() {
		review.CreatedOn = time.Now().UTC().Truncate(24 * time.Hour)
	}

	record := goqu.Record{
		"reviewer_id": review.ReviewerID,
		"doctor_id":   review.DoctorID,
		"body":        review.Body,
		"rating":      review.Rating,
		"created_on":  review.CreatedOn.Format("2006-01-02"),
	}

	query, args, err := a.db.Insert("reviews").Rows(record).Returning("id").ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&review.ID); err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewValidationError("doctor does not exist")
		}
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id int64) (*entities.Review, error) {
	defer a.client.RecordQuery(ctx, "reviews.get", time.Now())

	query, args, err := a.selectReviews().Where(goqu.I("r.id").Eq(id)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("review", id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// List retrieves reviews matching filter, newest first
func (a *ReviewAdapter) List(ctx context.Context, filter repositories.ReviewFilter, page pagination.Page) ([]*entities.Review, int64, error) {
	defer a.client.RecordQuery(ctx, "reviews.list", time.Now())

	ds := a.selectReviews()
	if filter.DoctorID != nil {
		ds = ds.Where(goqu.I("r.doctor_id").Eq(*filter.DoctorID))
	}
	if filter.ReviewerID != nil {
		ds = ds.Where(goqu.I("r.reviewer_id").Eq(*filter.ReviewerID))
	}
	if filter.Rating != "" {
		ds = ds.Where(goqu.I("r.rating").Eq(filter.Rating))
	}

	count, err := countRows(ctx, a.client.DB(), ds, "reviews")
	if err != nil {
		return nil, 0, err
	}

	query, args, err := paginate(ds.Order(goqu.I("r.created_on").Desc(), goqu.I("r.id").Desc()), page).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate reviews", err)
	}

	return reviews, count, nil
}

// Update updates body and rating
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	defer a.client.RecordQuery(ctx, "reviews.update", time.Now())

	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{"body": review.Body, "rating": review.Rating}).
		Where(goqu.Ex{"id": review.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}

	return expectAffected(result, "review", review.ID)
}

// Delete deletes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id int64) error {
	defer a.client.RecordQuery(ctx, "reviews.delete", time.Now())

	query, args, err := a.db.Delete("reviews").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}

	return expectAffected(result, "review", id)
}
