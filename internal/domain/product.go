package domain

import (
	"github.com/shopspring/decimal"
)

// Product is the aggregated catalog view of a product. Images, Comments and
// Thumbnail are only set when the product has related rows.
type Product struct {
	ID          string              `json:"id"`
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Images      []Image             `json:"images,omitempty"`
	Thumbnail   *Image              `json:"thumbnail,omitempty"`
	Comments    []Comment           `json:"comments,omitempty"`
}

// NewProduct holds the fields accepted when a product is created.
type NewProduct struct {
	Title       *string
	Description *string
	Price       decimal.NullDecimal
	Images      []NewImage
}

// ProductUpdate holds the fields to change on an existing product. Nil
// fields are left untouched.
type ProductUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Price == nil
}

// SearchFilter narrows a product search. Only non-nil fields apply.
type SearchFilter struct {
	Search      *string
	Title       *string
	Description *string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}
