package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/shop-project/catalog/pkg/errors"
	"github.com/shop-project/catalog/pkg/httputil"
	"github.com/shop-project/catalog/pkg/logger"
)

// ErrSessionNotFound is returned by a SessionResolver for unknown or expired ids.
var ErrSessionNotFound = errors.New("session not found")

// Claims describes the user behind a session.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// SessionResolver looks up the claims for a session id.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*Claims, error)
}

// Auth requires "Authorization: Bearer <session id>" and rejects requests
// whose session cannot be resolved with 401. Resolver failures other than
// ErrSessionNotFound are reported as 500.
func Auth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing authorization header"), nil)
				return
			}

			scheme, sid, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(sid) == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid authorization header format"), nil)
				return
			}

			claims, err := resolver.Resolve(r.Context(), strings.TrimSpace(sid))
			if err != nil {
				if errors.Is(err, ErrSessionNotFound) {
					httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired session"), nil)
					return
				}
				httputil.WriteError(w, r, apperrors.Internal(err), nil)
				return
			}

			ctx := logger.WithSessionUser(r.Context(), claims.UserID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
