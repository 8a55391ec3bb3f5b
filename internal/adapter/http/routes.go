package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/middleware"
)

// MountRoutes registers all routes on the given chi router. Three surfaces:
// the public storefront keyed by slug, the authenticated dashboard API, and
// the superadmin console.
func MountRoutes(r chi.Router, h *Handlers, validator middleware.TokenValidator) {
	r.Get("/healthz", h.Health)

	// Public storefront, no auth. The slug is the tenant key.
	r.Route("/loja/{slug}", func(r chi.Router) {
		r.Get("/", h.StorefrontHome)
		r.Get("/categories", h.StorefrontCategories)
		r.Get("/best-sellers", h.StorefrontBestSellers)
		r.Get("/products", h.StorefrontProducts)
		r.Get("/products/{id}", h.StorefrontProduct)
		r.Post("/quotes", h.StorefrontCreateQuote)
	})

	// Gateway webhooks, verified by signature instead of a token.
	r.Post("/webhooks/billing/{gateway}", h.BillingWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth entry points stay outside the token middleware.
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validator))

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)
			r.Post("/auth/change-password", h.ChangePassword)

			// A fresh user's only move: provision a store.
			r.Post("/tenants", h.ProvisionTenant)

			// Store settings
			r.Get("/store", h.GetStore)
			r.Put("/store", h.UpdateStore)
			r.Put("/store/slug", h.UpdateStoreSlug)
			r.Get("/store/members", h.ListStoreMembers)
			r.Get("/store/subscription", h.GetSubscription)
			r.Get("/store/quota", h.GetQuota)

			// Catalog reads are open to any staff member.
			r.Get("/products", h.ListProducts)
			r.Get("/products/{id}", h.GetProduct)
			r.Get("/categories", h.ListCategories)
			r.Get("/banners", h.ListBanners)
			r.Get("/themes", h.ListThemes)

			// Catalog and theme mutations need admin or above.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(membership.RoleAdmin))

				r.Post("/products", h.CreateProduct)
				r.Post("/products/suggest-copy", h.SuggestProductCopy)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)

				r.Post("/categories", h.CreateCategory)
				r.Put("/categories/{id}", h.UpdateCategory)
				r.Delete("/categories/{id}", h.DeleteCategory)

				r.Post("/banners", h.CreateBanner)
				r.Put("/banners/{id}", h.UpdateBanner)
				r.Delete("/banners/{id}", h.DeleteBanner)

				r.Post("/themes/revert", h.RevertTheme)
				r.Post("/themes/{id}/apply", h.ApplyTheme)
			})

			// Quotes (merchant side)
			r.Get("/quotes", h.ListQuotes)
			r.Get("/quotes/{id}", h.GetQuote)
			r.Put("/quotes/{id}/status", h.UpdateQuoteStatus)
			r.Delete("/quotes/{id}", h.DeleteQuote)

			// Notifications
			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)

			// Billing
			r.Post("/billing/checkout", h.CreateCheckout)

			// Superadmin console
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(membership.RoleSuperadmin))

				r.Get("/tenants", h.AdminListTenants)
				r.Get("/tenants/{id}", h.AdminGetTenant)
				r.Post("/tenants/{id}/suspend", h.AdminSuspendTenant)
				r.Post("/tenants/{id}/activate", h.AdminActivateTenant)
				r.Post("/tenants/{id}/trial", h.AdminExtendTrial)
				r.Put("/tenants/{id}/plan", h.AdminChangeTenantPlan)
				r.Put("/tenants/{id}/slug", h.AdminRegenerateSlug)
				r.Delete("/tenants/{id}", h.AdminDeleteTenant)

				r.Get("/users", h.AdminListUsers)
				r.Post("/users/reset-password", h.AdminResetUserPassword)

				r.Get("/plans", h.AdminListPlans)
				r.Post("/plans", h.AdminCreatePlan)
				r.Put("/plans/{id}", h.AdminUpdatePlan)
				r.Delete("/plans/{id}", h.AdminDeletePlan)

				r.Get("/themes", h.AdminListThemes)
				r.Post("/themes", h.AdminCreateTheme)
				r.Put("/themes/{id}", h.AdminUpdateTheme)
				r.Delete("/themes/{id}", h.AdminDeleteTheme)

				r.Get("/logs", h.AdminListLogs)
			})
		})
	})
}
