package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
	"github.com/zatekoja/hospital-management/pkg/pagination"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

func notFound(entity string, id int64) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entity, id))
}

// expectAffected maps a zero row count to a not found error
func expectAffected(result sql.Result, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return notFound(entity, id)
	}
	return nil
}

// paginate applies page to ds
func paginate(ds *goqu.SelectDataset, page pagination.Page) *goqu.SelectDataset {
	return ds.Limit(uint(page.Limit())).Offset(uint(page.Offset()))
}

// countRows runs a COUNT(*) over ds with its selection, order and paging removed
func countRows(ctx context.Context, q queryer, ds *goqu.SelectDataset, entity string) (int64, error) {
	query, args, err := ds.ClearSelect().ClearOrder().ClearLimit().ClearOffset().
		Select(goqu.COUNT("*")).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError(fmt.Sprintf("failed to count %s", entity), err)
	}
	return count, nil
}

// likePattern escapes LIKE metacharacters in term and wraps it for a
// substring match
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// slugOrID builds a condition matching a catalog row by slug, or by id when
// value is numeric
func slugOrID(table, value string) exp.Expression {
	bySlug := goqu.I(table + ".slug").Eq(value)
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return goqu.Or(bySlug, goqu.I(table+".id").Eq(id))
	}
	return bySlug
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
