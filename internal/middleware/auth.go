// Package middleware provides HTTP middleware for the Vitrine API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vitrinehq/vitrine/internal/domain/membership"
)

type principalCtxKey struct{}

// TokenValidator validates an access token and resolves the caller.
type TokenValidator interface {
	ValidateAccessToken(token string) (*membership.Principal, error)
}

// Auth returns middleware that validates Bearer tokens and stores the
// resolved principal in the request context. Routes mounted outside this
// middleware (storefront, webhooks, health) stay public.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				http.Error(w, `{"error":"invalid authorization header"}`, http.StatusUnauthorized)
				return
			}

			p, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), principalCtxKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *membership.Principal {
	p, _ := ctx.Value(principalCtxKey{}).(*membership.Principal)
	return p
}

// WithPrincipal stores a principal in the context. Used by tests and the
// webhook paths that resolve identity without a Bearer token.
func WithPrincipal(ctx context.Context, p *membership.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}
