// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/vitrinehq/vitrine/internal/domain/adminlog"
	"github.com/vitrinehq/vitrine/internal/domain/analytics"
	"github.com/vitrinehq/vitrine/internal/domain/catalog"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
	"github.com/vitrinehq/vitrine/internal/domain/quote"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/theme"
	"github.com/vitrinehq/vitrine/internal/domain/user"
)

// Store is the port interface for database operations.
type Store interface {
	// Tenants
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	SetTenantActive(ctx context.Context, id string, active bool) error
	UpdateTenantSlug(ctx context.Context, id, slug string) error
	DeleteTenant(ctx context.Context, id string) error

	// ProvisionTenant atomically creates the tenant, its owner membership and
	// its trial subscription. Either all three rows exist afterwards or none.
	ProvisionTenant(ctx context.Context, t *tenant.Tenant, owner *membership.Membership, sub *subscription.Subscription) error

	// ApplyTheme swaps the tenant's selected theme under a row lock:
	// previous_theme_id takes the old selection before it is overwritten.
	ApplyTheme(ctx context.Context, tenantID, themeID string) (*tenant.Tenant, error)
	// RevertTheme restores previous_theme_id and clears it. When no previous
	// theme is recorded the tenant row is returned unchanged.
	RevertTheme(ctx context.Context, tenantID string) (*tenant.Tenant, error)

	// Users & memberships
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
	GetMembershipByUser(ctx context.Context, userID string) (*membership.Membership, error)
	ListMembershipsByTenant(ctx context.Context, tenantID string) ([]membership.Membership, error)
	SetMembershipRole(ctx context.Context, userID string, role membership.Role) error

	// Refresh tokens
	CreateRefreshToken(ctx context.Context, rt *user.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*user.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID string, next *user.RefreshToken) error
	DeleteRefreshToken(ctx context.Context, id string) error
	DeleteRefreshTokensByUser(ctx context.Context, userID string) error

	// Plans
	CreatePlan(ctx context.Context, p *plan.Plan) error
	GetPlan(ctx context.Context, id string) (*plan.Plan, error)
	GetPlanBySlug(ctx context.Context, slug string) (*plan.Plan, error)
	ListPlans(ctx context.Context) ([]plan.Plan, error)
	UpdatePlan(ctx context.Context, p *plan.Plan) error
	DeletePlan(ctx context.Context, id string) error

	// Subscriptions
	GetSubscriptionByTenant(ctx context.Context, tenantID string) (*subscription.Subscription, error)
	UpdateSubscription(ctx context.Context, s *subscription.Subscription) error

	// Products
	// CreateProductWithinLimit inserts the product only while the tenant's
	// product count stays below maxProducts. The count and insert run in one
	// transaction holding a lock on the tenant row, so two concurrent creates
	// cannot both slip under the quota. maxProducts -1 disables the check.
	// Returns the count before the insert; domain.ErrLimitReached when full.
	CreateProductWithinLimit(ctx context.Context, p *catalog.Product, maxProducts int64) (int64, error)
	CountProducts(ctx context.Context, tenantID string) (int64, error)
	GetProduct(ctx context.Context, tenantID, id string) (*catalog.Product, error)
	ListProducts(ctx context.Context, tenantID string, f catalog.ProductFilter) ([]catalog.Product, error)
	ListProductsByIDs(ctx context.Context, tenantID string, ids []string) ([]catalog.Product, error)
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, tenantID, id string) error

	// Categories
	CreateCategory(ctx context.Context, c *catalog.Category) error
	GetCategory(ctx context.Context, tenantID, id string) (*catalog.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]catalog.Category, error)
	UpdateCategory(ctx context.Context, c *catalog.Category) error
	DeleteCategory(ctx context.Context, tenantID, id string) error

	// Banners
	CreateBanner(ctx context.Context, b *catalog.Banner) error
	GetBanner(ctx context.Context, tenantID, id string) (*catalog.Banner, error)
	ListBanners(ctx context.Context, tenantID string, activeOnly bool) ([]catalog.Banner, error)
	UpdateBanner(ctx context.Context, b *catalog.Banner) error
	DeleteBanner(ctx context.Context, tenantID, id string) error

	// Quotes
	CreateQuote(ctx context.Context, q *quote.Quote) error
	GetQuote(ctx context.Context, tenantID, id string) (*quote.Quote, error)
	ListQuotes(ctx context.Context, tenantID string) ([]quote.Quote, error)
	UpdateQuoteStatus(ctx context.Context, tenantID, id string, status quote.Status) error
	DeleteQuote(ctx context.Context, tenantID, id string) error

	// Themes
	CreateTheme(ctx context.Context, t *theme.Theme) error
	GetTheme(ctx context.Context, id string) (*theme.Theme, error)
	ListThemes(ctx context.Context, activeOnly bool) ([]theme.Theme, error)
	UpdateTheme(ctx context.Context, t *theme.Theme) error
	DeleteTheme(ctx context.Context, id string) error

	// Notifications
	CreateNotification(ctx context.Context, n *notification.Notification) error
	ListNotifications(ctx context.Context, tenantID string, unreadOnly bool) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, tenantID, id string) error

	// Admin logs
	AppendAdminLog(ctx context.Context, e *adminlog.Entry) error
	ListAdminLogs(ctx context.Context, limit int) ([]adminlog.Entry, error)

	// Analytics
	RecordEvents(ctx context.Context, events []analytics.Event) error
	ProductCountsByTenant(ctx context.Context, tenantID string) ([]analytics.ProductCounts, error)
}
