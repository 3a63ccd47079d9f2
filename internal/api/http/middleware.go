package http

import (
	"context"
	"net/http"
	"strings"

	"rentaldesk-backend/internal/access"
	"rentaldesk-backend/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the token claims attached by the auth
// middleware, or nil on an unauthenticated request.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsContextKey).(*security.UserClaims)
	return claims
}

// AuthMiddleware validates the bearer token and attaches the claims to the
// request context. Requests without an Authorization header pass through
// unauthenticated; route guards decide whether that is acceptable.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == header {
				writeError(w, http.StatusUnauthorized, "malformed authorization header")
				return
			}

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if claims.Type != security.TokenTypeAccess {
				writeError(w, http.StatusUnauthorized, "access token required")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRoles guards a handler. An unauthenticated request gets 401; an
// authenticated one outside the allowed set gets 403. A nil set admits any
// authenticated user.
func requireRoles(allowed access.RoleSet, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !access.CanAccess(claims.Role, allowed) {
			writeError(w, http.StatusForbidden, "insufficient role")
			return
		}
		handler(w, r)
	}
}
