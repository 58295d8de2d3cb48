// Package mapper converts storage rows into domain values. Mapping is 1:1
// and keeps input order; it only renames fields and coerces nulls.
package mapper

import (
	"errors"
	"fmt"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/entity"
)

// ErrMalformedRow is returned for a row missing a column it cannot exist
// without, such as its primary key.
var ErrMalformedRow = errors.New("malformed row")

// Product maps a single product row.
func Product(row entity.ProductRow) (domain.Product, error) {
	if row.ProductID == nil || *row.ProductID == "" {
		return domain.Product{}, fmt.Errorf("product: missing product_id: %w", ErrMalformedRow)
	}
	return domain.Product{
		ID:          *row.ProductID,
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
	}, nil
}

// Products maps product rows in order.
func Products(rows []entity.ProductRow) ([]domain.Product, error) {
	return mapAll(rows, Product)
}

// Comment maps a single comment row.
func Comment(row entity.CommentRow) (domain.Comment, error) {
	if row.CommentID == nil || *row.CommentID == "" {
		return domain.Comment{}, fmt.Errorf("comment: missing comment_id: %w", ErrMalformedRow)
	}
	return domain.Comment{
		ID:        *row.CommentID,
		ProductID: deref(row.ProductID),
		Name:      deref(row.Name),
		Email:     deref(row.Email),
		Body:      deref(row.Body),
	}, nil
}

// Comments maps comment rows in order.
func Comments(rows []entity.CommentRow) ([]domain.Comment, error) {
	return mapAll(rows, Comment)
}

// Image maps a single image row. An image must name its product.
func Image(row entity.ImageRow) (domain.Image, error) {
	if row.ImageID == nil || *row.ImageID == "" {
		return domain.Image{}, fmt.Errorf("image: missing image_id: %w", ErrMalformedRow)
	}
	if row.ProductID == nil || *row.ProductID == "" {
		return domain.Image{}, fmt.Errorf("image %s: missing product_id: %w", *row.ImageID, ErrMalformedRow)
	}
	return domain.Image{
		ID:        *row.ImageID,
		ProductID: *row.ProductID,
		URL:       deref(row.URL),
		Main:      row.Main != nil && *row.Main,
	}, nil
}

// Images maps image rows in order.
func Images(rows []entity.ImageRow) ([]domain.Image, error) {
	return mapAll(rows, Image)
}

func mapAll[R, D any](rows []R, fn func(R) (D, error)) ([]D, error) {
	out := make([]D, 0, len(rows))
	for i, row := range rows {
		d, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
