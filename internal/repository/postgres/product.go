package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	"github.com/shop-project/catalog/internal/query"
	"github.com/shop-project/catalog/pkg/database"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

// ProductRepository implements repository.ProductRepository.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a product repository over db.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) queryRows(ctx context.Context, op, sql string, args ...any) (result []entity.ProductRow, err error) {
	ctx, end := database.TraceQuery(ctx, op, sql)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanProduct)
}

// List returns every product row.
func (r *ProductRepository) List(ctx context.Context) ([]entity.ProductRow, error) {
	rows, err := r.queryRows(ctx, "ListProducts", "SELECT "+query.ProductColumns+" FROM products")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// Search returns the product rows matching filter.
func (r *ProductRepository) Search(ctx context.Context, filter domain.SearchFilter) ([]entity.ProductRow, error) {
	sql, args, err := query.ProductSearch(filter)
	if err != nil {
		return nil, fmt.Errorf("build product search: %w", err)
	}
	rows, err := r.queryRows(ctx, "SearchProducts", sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return rows, nil
}

// GetByID returns the product row with id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (_ *entity.ProductRow, err error) {
	const sql = "SELECT " + query.ProductColumns + " FROM products WHERE product_id = $1"
	ctx, end := database.TraceQuery(ctx, "GetProduct", sql)
	defer func() { end(err) }()

	var p entity.ProductRow
	err = r.db.QueryRow(ctx, sql, id).Scan(&p.ProductID, &p.Title, &p.Description, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get product %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns the rows of the given products that exist.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.ProductRow, error) {
	if len(ids) == 0 {
		return []entity.ProductRow{}, nil
	}
	rows, err := r.queryRows(ctx, "GetProductsByIDs",
		"SELECT "+query.ProductColumns+" FROM products WHERE product_id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	return rows, nil
}

// Exists reports whether a product with id exists.
func (r *ProductRepository) Exists(ctx context.Context, id string) (exists bool, err error) {
	const sql = "SELECT EXISTS(SELECT 1 FROM products WHERE product_id = $1)"
	ctx, end := database.TraceQuery(ctx, "ProductExists", sql)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product %s: %w", id, err)
	}
	return exists, nil
}

// Create inserts the product row.
func (r *ProductRepository) Create(ctx context.Context, id string, p domain.NewProduct) (err error) {
	const sql = "INSERT INTO products (product_id, title, description, price) VALUES ($1, $2, $3, $4)"
	ctx, end := database.TraceQuery(ctx, "CreateProduct", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, id, p.Title, p.Description, p.Price); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return apperrors.AlreadyExists("product", "id", id)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update sets the fields present in u.
func (r *ProductRepository) Update(ctx context.Context, id string, u domain.ProductUpdate) (err error) {
	sql, args, ok, err := query.ProductUpdate(id, u)
	if err != nil {
		return fmt.Errorf("build product update: %w", err)
	}
	if !ok {
		return nil
	}

	ctx, end := database.TraceQuery(ctx, "UpdateProduct", sql)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product %s: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("update product %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// Delete removes the product row. Deleting a missing product is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id string) (err error) {
	const sql = "DELETE FROM products WHERE product_id = $1"
	ctx, end := database.TraceQuery(ctx, "DeleteProduct", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}
