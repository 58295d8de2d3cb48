// Package postgres implements the catalog repositories on PostgreSQL.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shop-project/catalog/internal/entity"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func scanProduct(row pgx.CollectableRow) (entity.ProductRow, error) {
	var p entity.ProductRow
	err := row.Scan(&p.ProductID, &p.Title, &p.Description, &p.Price)
	return p, err
}

func scanComment(row pgx.CollectableRow) (entity.CommentRow, error) {
	var c entity.CommentRow
	err := row.Scan(&c.CommentID, &c.ProductID, &c.Name, &c.Email, &c.Body)
	return c, err
}

func scanImage(row pgx.CollectableRow) (entity.ImageRow, error) {
	var i entity.ImageRow
	err := row.Scan(&i.ImageID, &i.ProductID, &i.URL, &i.Main)
	return i, err
}
