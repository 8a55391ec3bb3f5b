package http

import (
	"net/http"
	"strconv"

	"github.com/vitrinehq/vitrine/internal/domain/adminlog"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/theme"
	"github.com/vitrinehq/vitrine/internal/domain/user"
	"github.com/vitrinehq/vitrine/internal/middleware"
)

// actorID returns the authenticated superadmin's user ID. The RequireRole
// middleware guarantees a principal exists on these routes.
func actorID(r *http.Request) string {
	if p := middleware.PrincipalFromContext(r.Context()); p != nil {
		return p.UserID
	}
	return ""
}

// AdminListTenants handles GET /api/v1/admin/tenants
func (h *Handlers) AdminListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Superadmin.ListTenants(r.Context())
	if err != nil {
		writeDomainError(w, err, "tenants not found")
		return
	}
	if tenants == nil {
		tenants = []tenant.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// AdminGetTenant handles GET /api/v1/admin/tenants/{id}
func (h *Handlers) AdminGetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Superadmin.GetTenant(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AdminSuspendTenant handles POST /api/v1/admin/tenants/{id}/suspend
func (h *Handlers) AdminSuspendTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Superadmin.SetTenantActive(r.Context(), actorID(r), urlParam(r, "id"), false)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AdminActivateTenant handles POST /api/v1/admin/tenants/{id}/activate
func (h *Handlers) AdminActivateTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Superadmin.SetTenantActive(r.Context(), actorID(r), urlParam(r, "id"), true)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// AdminDeleteTenant handles DELETE /api/v1/admin/tenants/{id}
func (h *Handlers) AdminDeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.Superadmin.DeleteTenant(r.Context(), actorID(r), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminChangeTenantPlan handles PUT /api/v1/admin/tenants/{id}/plan
func (h *Handlers) AdminChangeTenantPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[struct {
		PlanSlug string `json:"plan_slug"`
	}](w, r)
	if !ok {
		return
	}

	sub, err := h.Superadmin.ChangeTenantPlan(r.Context(), actorID(r), urlParam(r, "id"), req.PlanSlug)
	if err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// AdminExtendTrial handles POST /api/v1/admin/tenants/{id}/trial
func (h *Handlers) AdminExtendTrial(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[struct {
		Days int `json:"days"`
	}](w, r)
	if !ok {
		return
	}

	sub, err := h.Superadmin.ExtendTrial(r.Context(), actorID(r), urlParam(r, "id"), req.Days)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// AdminRegenerateSlug handles PUT /api/v1/admin/tenants/{id}/slug
func (h *Handlers) AdminRegenerateSlug(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[struct {
		Slug string `json:"slug"`
	}](w, r)
	if !ok {
		return
	}

	t, err := h.Superadmin.RegenerateTenantSlug(r.Context(), actorID(r), urlParam(r, "id"), req.Slug)
	if err != nil {
		writeDomainError(w, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// --- Users ---

// AdminListUsers handles GET /api/v1/admin/users
func (h *Handlers) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Superadmin.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err, "users not found")
		return
	}
	if users == nil {
		users = []user.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// AdminResetUserPassword handles POST /api/v1/admin/users/reset-password
//
// The user must change the password on the next login.
func (h *Handlers) AdminResetUserPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}](w, r)
	if !ok {
		return
	}

	if err := h.Auth.AdminResetPassword(r.Context(), req.Email, req.Password); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}

	h.Superadmin.RecordAction(r.Context(), actorID(r), nil, "user.reset_password", map[string]string{"email": req.Email})
	w.WriteHeader(http.StatusNoContent)
}

// --- Plans ---

// AdminCreatePlan handles POST /api/v1/admin/plans
func (h *Handlers) AdminCreatePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[plan.CreateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Superadmin.CreatePlan(r.Context(), actorID(r), &req)
	if err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// AdminListPlans handles GET /api/v1/admin/plans
func (h *Handlers) AdminListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Superadmin.ListPlans(r.Context())
	if err != nil {
		writeDomainError(w, err, "plans not found")
		return
	}
	if plans == nil {
		plans = []plan.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// AdminUpdatePlan handles PUT /api/v1/admin/plans/{id}
func (h *Handlers) AdminUpdatePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[plan.UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Superadmin.UpdatePlan(r.Context(), actorID(r), urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AdminDeletePlan handles DELETE /api/v1/admin/plans/{id}
func (h *Handlers) AdminDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.Superadmin.DeletePlan(r.Context(), actorID(r), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Themes (gallery management) ---

// AdminListThemes handles GET /api/v1/admin/themes
func (h *Handlers) AdminListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.Themes.List(r.Context(), false)
	if err != nil {
		writeDomainError(w, err, "themes not found")
		return
	}
	if themes == nil {
		themes = []theme.Theme{}
	}
	writeJSON(w, http.StatusOK, themes)
}

// AdminCreateTheme handles POST /api/v1/admin/themes
func (h *Handlers) AdminCreateTheme(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[theme.CreateRequest](w, r)
	if !ok {
		return
	}

	th, err := h.Themes.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "theme not found")
		return
	}
	writeJSON(w, http.StatusCreated, th)
}

// AdminUpdateTheme handles PUT /api/v1/admin/themes/{id}
func (h *Handlers) AdminUpdateTheme(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[theme.UpdateRequest](w, r)
	if !ok {
		return
	}

	th, err := h.Themes.Update(r.Context(), urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "theme not found")
		return
	}
	writeJSON(w, http.StatusOK, th)
}

// AdminDeleteTheme handles DELETE /api/v1/admin/themes/{id}
func (h *Handlers) AdminDeleteTheme(w http.ResponseWriter, r *http.Request) {
	if err := h.Themes.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "theme not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminListLogs handles GET /api/v1/admin/logs
func (h *Handlers) AdminListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}

	logs, err := h.Superadmin.ListAdminLogs(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err, "logs not found")
		return
	}
	if logs == nil {
		logs = []adminlog.Entry{}
	}
	writeJSON(w, http.StatusOK, logs)
}
