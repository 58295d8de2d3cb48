package http

import (
	"net/http"
	"strings"

	"github.com/shop-project/catalog/pkg/httputil"
	"github.com/shop-project/catalog/pkg/validator"
)

// decode reads and validates a JSON body into dst. On failure it writes the
// 400 response and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := validator.Decode(w, r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// nilIfBlank treats an absent or whitespace-only string as not provided.
func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
