// Package aggregate assembles the composite product view from products,
// comments and images read separately from storage.
package aggregate

import (
	"github.com/shop-project/catalog/internal/domain"
)

// Products attaches to each product the comments and images that reference
// it. Empty groups are left unset. Output order follows products; within a
// group, input order is kept. Related rows whose product is not in products
// are ignored.
func Products(products []domain.Product, comments []domain.Comment, images []domain.Image) []domain.Product {
	commentsBy := make(map[string][]domain.Comment, len(products))
	for _, c := range comments {
		commentsBy[c.ProductID] = append(commentsBy[c.ProductID], c)
	}
	imagesBy := make(map[string][]domain.Image, len(products))
	for _, img := range images {
		imagesBy[img.ProductID] = append(imagesBy[img.ProductID], img)
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, Attach(p, commentsBy[p.ID], imagesBy[p.ID]))
	}
	return out
}

// Attach returns p with the given comments and images, which must all belong
// to p, and its derived thumbnail.
func Attach(p domain.Product, comments []domain.Comment, images []domain.Image) domain.Product {
	p.Comments = nil
	p.Images = nil
	p.Thumbnail = nil

	if len(comments) > 0 {
		p.Comments = comments
	}
	if len(images) > 0 {
		p.Images = images
		p.Thumbnail = Thumbnail(images)
	}
	return p
}

// Thumbnail picks the first image flagged main, falling back to the first
// image. It returns nil for no images.
func Thumbnail(images []domain.Image) *domain.Image {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		if images[i].Main {
			img := images[i]
			return &img
		}
	}
	img := images[0]
	return &img
}
