package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/service"
)

// Handlers bundles the HTTP handlers over the service layer.
type Handlers struct {
	Auth          *service.AuthService
	Tenants       *service.TenantService
	Subscriptions *service.SubscriptionService
	Catalog       *service.CatalogService
	Themes        *service.ThemeService
	Quotes        *service.QuoteService
	Storefront    *service.StorefrontService
	Billing       *service.BillingService
	Notifications *service.NotificationService
	Superadmin    *service.SuperadminService
}

// Health handles GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
