package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-foodorder/models"
	"go-foodorder/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Auth returns middleware that verifies the bearer token and attaches the
// claims to the request context.
func Auth(tokens *utils.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := parseBearer(r, tokens)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin ensures that the authenticated user has the admin role. It must be
// applied after Auth.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
		if !ok || claims.Role != models.RoleAdmin {
			utils.RespondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext extracts the authenticated claims attached by Auth.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

func parseBearer(r *http.Request, tokens *utils.TokenService) (*utils.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := tokens.Parse(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
