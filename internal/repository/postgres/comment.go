package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	"github.com/shop-project/catalog/pkg/database"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

const commentColumns = "comment_id, product_id, name, email, body"

// CommentRepository implements repository.CommentRepository.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a comment repository over db.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) queryRows(ctx context.Context, op, sql string, args ...any) (result []entity.CommentRow, err error) {
	ctx, end := database.TraceQuery(ctx, op, sql)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanComment)
}

func (r *CommentRepository) List(ctx context.Context) ([]entity.CommentRow, error) {
	rows, err := r.queryRows(ctx, "ListComments", "SELECT "+commentColumns+" FROM comments")
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return rows, nil
}

func (r *CommentRepository) ListByProduct(ctx context.Context, productID string) ([]entity.CommentRow, error) {
	rows, err := r.queryRows(ctx, "ListProductComments",
		"SELECT "+commentColumns+" FROM comments WHERE product_id = $1", productID)
	if err != nil {
		return nil, fmt.Errorf("list comments of product %s: %w", productID, err)
	}
	return rows, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (_ *entity.CommentRow, err error) {
	const sql = "SELECT " + commentColumns + " FROM comments WHERE comment_id = $1"
	ctx, end := database.TraceQuery(ctx, "GetComment", sql)
	defer func() { end(err) }()

	var c entity.CommentRow
	err = r.db.QueryRow(ctx, sql, id).Scan(&c.CommentID, &c.ProductID, &c.Name, &c.Email, &c.Body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get comment %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	return &c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c domain.Comment) (err error) {
	const sql = "INSERT INTO comments (comment_id, product_id, name, email, body) VALUES ($1, $2, $3, $4, $5)"
	ctx, end := database.TraceQuery(ctx, "CreateComment", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, c.ID, c.ProductID, c.Name, c.Email, c.Body); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.NotFound("product", c.ProductID)
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// Delete removes one comment and reports ErrNotFound when it did not exist.
func (r *CommentRepository) Delete(ctx context.Context, id string) (err error) {
	const sql = "DELETE FROM comments WHERE comment_id = $1"
	ctx, end := database.TraceQuery(ctx, "DeleteComment", sql)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) DeleteByProduct(ctx context.Context, productID string) (err error) {
	const sql = "DELETE FROM comments WHERE product_id = $1"
	ctx, end := database.TraceQuery(ctx, "DeleteProductComments", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, productID); err != nil {
		return fmt.Errorf("delete comments of product %s: %w", productID, err)
	}
	return nil
}
