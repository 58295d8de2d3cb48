package http

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/pkg/validator"
)

// Query parameters accepted by GET /products/search.
const (
	paramSearch      = "search"
	paramTitle       = "title"
	paramDescription = "description"
	paramMinPrice    = "minPrice"
	paramMaxPrice    = "maxPrice"
)

func fieldError(field, message string) *validator.ValidationError {
	return &validator.ValidationError{Details: []validator.FieldError{{Field: field, Message: message}}}
}

// parseSearchFilter reads the recognized keys from q. Blank values count as
// absent and unknown keys are ignored.
func parseSearchFilter(q url.Values) (domain.SearchFilter, error) {
	var (
		f       domain.SearchFilter
		details []validator.FieldError
	)

	text := func(key string) *string {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			return nil
		}
		return &v
	}
	price := func(key string) *decimal.Decimal {
		v := text(key)
		if v == nil {
			return nil
		}
		d, err := decimal.NewFromString(*v)
		if err != nil {
			details = append(details, validator.FieldError{Field: key, Message: "must be a valid number"})
			return nil
		}
		return &d
	}

	f.Search = text(paramSearch)
	f.Title = text(paramTitle)
	f.Description = text(paramDescription)
	f.MinPrice = price(paramMinPrice)
	f.MaxPrice = price(paramMaxPrice)

	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		details = append(details, validator.FieldError{Field: paramMinPrice, Message: "must not exceed maxPrice"})
	}
	if len(details) > 0 {
		return domain.SearchFilter{}, &validator.ValidationError{Details: details}
	}
	return f, nil
}
