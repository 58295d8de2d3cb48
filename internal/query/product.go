package query

import (
	"strings"

	"github.com/shop-project/catalog/internal/domain"
)

// ProductColumns is the column list every product read selects, in scan order.
const ProductColumns = "product_id, title, description, price"

const selectProducts = "SELECT " + ProductColumns + " FROM products"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns an ILIKE pattern matching s anywhere, with s's own
// wildcard characters escaped.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// ProductSearch builds the product search statement for f. Present filters
// are AND-ed; an empty filter selects every product.
func ProductSearch(f domain.SearchFilter) (string, []any, error) {
	var b Builder
	if f.Search != nil {
		pattern := Contains(*f.Search)
		b.Add("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}
	if f.Title != nil {
		b.Add("title ILIKE ?", Contains(*f.Title))
	}
	if f.Description != nil {
		b.Add("description ILIKE ?", Contains(*f.Description))
	}
	if f.MinPrice != nil {
		b.Add("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.Add("price <= ?", *f.MaxPrice)
	}

	if b.Len() == 0 {
		return selectProducts, nil, nil
	}
	return b.Build(selectProducts+" WHERE ", " AND ", "")
}

// ProductUpdate builds an UPDATE that sets only the fields present in u.
// ok is false when u changes nothing.
func ProductUpdate(id string, u domain.ProductUpdate) (sql string, args []any, ok bool, err error) {
	if u.IsEmpty() {
		return "", nil, false, nil
	}

	var b Builder
	if u.Title != nil {
		b.Add("title = ?", *u.Title)
	}
	if u.Description != nil {
		b.Add("description = ?", *u.Description)
	}
	if u.Price != nil {
		b.Add("price = ?", *u.Price)
	}

	sql, args, err = b.Build("UPDATE products SET ", ", ", " WHERE product_id = ?", id)
	if err != nil {
		return "", nil, false, err
	}
	return sql, args, true, nil
}
