package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/middleware"
)

func injectPrincipal(p *membership.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), p)))
		})
	}
}

func TestRequireRole_AtThresholdAllowed(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	admin := &membership.Principal{UserID: "u1", TenantID: "t1", Role: membership.RoleAdmin}
	handler := injectPrincipal(admin)(middleware.RequireRole(membership.RoleAdmin)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_AboveThresholdAllowed(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	owner := &membership.Principal{UserID: "u1", TenantID: "t1", Role: membership.RoleOwner}
	handler := injectPrincipal(owner)(middleware.RequireRole(membership.RoleAdmin)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_NoPrincipal_Returns401(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RequireRole(membership.RoleAdmin)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole_BelowThreshold_Returns403(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	member := &membership.Principal{UserID: "u2", TenantID: "t1", Role: membership.RoleMember}
	handler := injectPrincipal(member)(middleware.RequireRole(membership.RoleOwner)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenant/slug", http.NoBody)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRole_SuperadminGate(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RequireRole(membership.RoleSuperadmin)(inner)

	owner := &membership.Principal{UserID: "u3", TenantID: "t1", Role: membership.RoleOwner}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/tenants", http.NoBody)
	rec := httptest.NewRecorder()
	injectPrincipal(owner)(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("owner against superadmin gate: status = %d, want 403", rec.Code)
	}

	super := &membership.Principal{UserID: "u4", Role: membership.RoleSuperadmin}
	rec = httptest.NewRecorder()
	injectPrincipal(super)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/tenants", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("superadmin against superadmin gate: status = %d, want 200", rec.Code)
	}
}
