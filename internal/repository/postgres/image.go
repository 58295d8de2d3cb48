package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
	"github.com/shop-project/catalog/pkg/database"
	apperrors "github.com/shop-project/catalog/pkg/errors"
)

const imageColumns = "image_id, product_id, url, main"

// ImageRepository implements repository.ImageRepository.
type ImageRepository struct {
	db database.DBTX
}

// NewImageRepository creates an image repository over db.
func NewImageRepository(db database.DBTX) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) queryRows(ctx context.Context, op, sql string, args ...any) (result []entity.ImageRow, err error) {
	ctx, end := database.TraceQuery(ctx, op, sql)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanImage)
}

func (r *ImageRepository) List(ctx context.Context) ([]entity.ImageRow, error) {
	rows, err := r.queryRows(ctx, "ListImages", "SELECT "+imageColumns+" FROM images")
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return rows, nil
}

func (r *ImageRepository) ListByProduct(ctx context.Context, productID string) ([]entity.ImageRow, error) {
	rows, err := r.queryRows(ctx, "ListProductImages",
		"SELECT "+imageColumns+" FROM images WHERE product_id = $1", productID)
	if err != nil {
		return nil, fmt.Errorf("list images of product %s: %w", productID, err)
	}
	return rows, nil
}

// CreateBatch inserts every image in one round trip by unnesting parallel
// arrays.
func (r *ImageRepository) CreateBatch(ctx context.Context, images []domain.Image) (err error) {
	if len(images) == 0 {
		return nil
	}

	const sql = `INSERT INTO images (image_id, product_id, url, main)
SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::bool[])`
	ctx, end := database.TraceQuery(ctx, "CreateImages", sql)
	defer func() { end(err) }()

	ids := make([]string, len(images))
	products := make([]string, len(images))
	urls := make([]string, len(images))
	mains := make([]bool, len(images))
	for i, img := range images {
		ids[i], products[i], urls[i], mains[i] = img.ID, img.ProductID, img.URL, img.Main
	}

	if _, err = r.db.Exec(ctx, sql, ids, products, urls, mains); err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return apperrors.NotFound("product", images[0].ProductID)
		}
		return fmt.Errorf("insert images: %w", err)
	}
	return nil
}

func (r *ImageRepository) DeleteByIDs(ctx context.Context, ids []string) (err error) {
	const sql = "DELETE FROM images WHERE image_id = ANY($1)"
	ctx, end := database.TraceQuery(ctx, "DeleteImages", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, ids); err != nil {
		return fmt.Errorf("delete images: %w", err)
	}
	return nil
}

func (r *ImageRepository) DeleteByProduct(ctx context.Context, productID string) (err error) {
	const sql = "DELETE FROM images WHERE product_id = $1"
	ctx, end := database.TraceQuery(ctx, "DeleteProductImages", sql)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, sql, productID); err != nil {
		return fmt.Errorf("delete images of product %s: %w", productID, err)
	}
	return nil
}

// SetMain clears the main flag on every image of the product and sets it on
// imageID in a single statement. Nothing changes unless the image belongs to
// the product.
func (r *ImageRepository) SetMain(ctx context.Context, productID, imageID string) (err error) {
	const sql = `UPDATE images SET main = (image_id = $2)
WHERE product_id = $1
  AND EXISTS (SELECT 1 FROM images WHERE image_id = $2 AND product_id = $1)`
	ctx, end := database.TraceQuery(ctx, "SetMainImage", sql)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, sql, productID, imageID)
	if err != nil {
		return fmt.Errorf("set main image of product %s: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("set main image of product %s: %w", productID, apperrors.NotFound("image", imageID))
	}
	return nil
}
