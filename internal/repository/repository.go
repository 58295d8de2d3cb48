package repository

import (
	"context"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
)

// ProductRepository persists rows of the products table.
type ProductRepository interface {
	// List returns every product row.
	List(ctx context.Context) ([]entity.ProductRow, error)

	// Search returns the product rows matching the filter.
	Search(ctx context.Context, filter domain.SearchFilter) ([]entity.ProductRow, error)

	// GetByID returns one product row or an error wrapping errors.ErrNotFound.
	GetByID(ctx context.Context, id string) (*entity.ProductRow, error)

	// GetByIDs returns the rows for ids that exist; missing ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]entity.ProductRow, error)

	// Exists reports whether a product with id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Create inserts a product under the given id. Images are not stored.
	Create(ctx context.Context, id string, p domain.NewProduct) error

	// Update changes the fields present in u. It returns an error wrapping
	// errors.ErrNotFound when no row has id.
	Update(ctx context.Context, id string, u domain.ProductUpdate) error

	// Delete removes the product row.
	Delete(ctx context.Context, id string) error
}

// CommentRepository persists rows of the comments table.
type CommentRepository interface {
	List(ctx context.Context) ([]entity.CommentRow, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.CommentRow, error)
	GetByID(ctx context.Context, id string) (*entity.CommentRow, error)
	Create(ctx context.Context, c domain.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByProduct(ctx context.Context, productID string) error
}

// ImageRepository persists rows of the images table.
type ImageRepository interface {
	List(ctx context.Context) ([]entity.ImageRow, error)
	ListByProduct(ctx context.Context, productID string) ([]entity.ImageRow, error)

	// CreateBatch inserts all images with a single statement.
	CreateBatch(ctx context.Context, images []domain.Image) error

	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByProduct(ctx context.Context, productID string) error

	// SetMain flags imageID as the only main image of productID. It returns
	// an error wrapping errors.ErrNotFound when the product has no such image.
	SetMain(ctx context.Context, productID, imageID string) error
}
