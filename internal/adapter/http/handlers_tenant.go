package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/middleware"
)

// ProvisionTenant handles POST /api/v1/tenants
func (h *Handlers) ProvisionTenant(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	req, ok := readJSON[tenant.CreateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tenants.Provision(r.Context(), p.UserID, &req)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GetStore handles GET /api/v1/store
func (h *Handlers) GetStore(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	t, err := h.Tenants.Get(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateStore handles PUT /api/v1/store
func (h *Handlers) UpdateStore(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[tenant.UpdateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tenants.Update(r.Context(), p.TenantID, &req)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateStoreSlug handles PUT /api/v1/store/slug
func (h *Handlers) UpdateStoreSlug(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[struct {
		Slug string `json:"slug"`
	}](w, r)
	if !ok {
		return
	}

	t, err := h.Tenants.UpdateSlug(r.Context(), p.TenantID, req.Slug)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListStoreMembers handles GET /api/v1/store/members
func (h *Handlers) ListStoreMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	members, err := h.Tenants.Members(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// GetSubscription handles GET /api/v1/store/subscription
func (h *Handlers) GetSubscription(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	sub, plan, err := h.Subscriptions.Current(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "subscription not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscription": sub, "plan": plan})
}

// GetQuota handles GET /api/v1/store/quota
func (h *Handlers) GetQuota(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	q, err := h.Subscriptions.Quota(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "subscription not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}
