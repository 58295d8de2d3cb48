// Package entity holds the raw storage rows of the catalog tables. Every
// column is nullable at this level; the mapper decides what is required.
package entity

import (
	"github.com/shopspring/decimal"
)

// ProductRow is one row of the products table.
type ProductRow struct {
	ProductID   *string
	Title       *string
	Description *string
	Price       decimal.NullDecimal
}

// CommentRow is one row of the comments table.
type CommentRow struct {
	CommentID *string
	ProductID *string
	Name      *string
	Email     *string
	Body      *string
}

// ImageRow is one row of the images table.
type ImageRow struct {
	ImageID   *string
	ProductID *string
	URL       *string
	Main      *bool
}
