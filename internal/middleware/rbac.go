package middleware

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/membership"
)

// RequireRole returns middleware that restricts access to principals whose
// role is at least min. Roles are ordered member < admin < owner < superadmin.
func RequireRole(min membership.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				http.Error(w, `{"error":"authorization required"}`, http.StatusUnauthorized)
				return
			}

			if p.Role < min {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
