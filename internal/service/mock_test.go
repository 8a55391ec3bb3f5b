package service

import (
	"context"
	"time"

	"github.com/vitrinehq/vitrine/internal/domain"
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
	"github.com/vitrinehq/vitrine/internal/port/copywriter"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/mailer"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
	"github.com/vitrinehq/vitrine/internal/port/payments"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory implementation of database.Store for testing.
type mockStore struct {
	tenants       []tenant.Tenant
	users         []user.User
	memberships   []membership.Membership
	refreshTokens []user.RefreshToken
	plans         []plan.Plan
	subscriptions []subscription.Subscription
	products      []catalog.Product
	categories    []catalog.Category
	banners       []catalog.Banner
	quotes        []quote.Quote
	themes        []theme.Theme
	notifications []notification.Notification
	adminLogs     []adminlog.Entry
	events        []analytics.Event

	// Error hooks — set these to inject failures.
	provisionErr     error
	createProductErr error
	recordEventsErr  error
	notificationErr  error
	adminLogErr      error
}

// --- Tenants ---

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			return &m.tenants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetTenantBySlug(_ context.Context, slug string) (*tenant.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].Slug == slug {
			return &m.tenants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListTenants(_ context.Context) ([]tenant.Tenant, error) {
	return m.tenants, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	for i := range m.tenants {
		if m.tenants[i].ID == t.ID {
			m.tenants[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) SetTenantActive(_ context.Context, id string, active bool) error {
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].Active = active
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) UpdateTenantSlug(_ context.Context, id, slug string) error {
	for i := range m.tenants {
		if m.tenants[i].Slug == slug && m.tenants[i].ID != id {
			return domain.ErrConflict
		}
	}
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants[i].Slug = slug
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	for i := range m.tenants {
		if m.tenants[i].ID == id {
			m.tenants = append(m.tenants[:i], m.tenants[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ProvisionTenant(_ context.Context, t *tenant.Tenant, owner *membership.Membership, sub *subscription.Subscription) error {
	if m.provisionErr != nil {
		return m.provisionErr
	}
	for i := range m.tenants {
		if m.tenants[i].Slug == t.Slug {
			return domain.ErrConflict
		}
	}
	for i := range m.memberships {
		if m.memberships[i].UserID == owner.UserID {
			return domain.ErrConflict
		}
	}
	m.tenants = append(m.tenants, *t)
	m.memberships = append(m.memberships, *owner)
	m.subscriptions = append(m.subscriptions, *sub)
	return nil
}

func (m *mockStore) ApplyTheme(_ context.Context, tenantID, themeID string) (*tenant.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].ID == tenantID {
			m.tenants[i].PreviousThemeID = m.tenants[i].SelectedThemeID
			id := themeID
			m.tenants[i].SelectedThemeID = &id
			return &m.tenants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) RevertTheme(_ context.Context, tenantID string) (*tenant.Tenant, error) {
	for i := range m.tenants {
		if m.tenants[i].ID == tenantID {
			if m.tenants[i].PreviousThemeID != nil {
				m.tenants[i].SelectedThemeID = m.tenants[i].PreviousThemeID
				m.tenants[i].PreviousThemeID = nil
			}
			return &m.tenants[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Users & memberships ---

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	for i := range m.users {
		if m.users[i].Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.users = append(m.users, *u)
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListUsers(_ context.Context) ([]user.User, error) {
	return m.users, nil
}

func (m *mockStore) UpdateUser(_ context.Context, u *user.User) error {
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) GetMembershipByUser(_ context.Context, userID string) (*membership.Membership, error) {
	for i := range m.memberships {
		if m.memberships[i].UserID == userID {
			return &m.memberships[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListMembershipsByTenant(_ context.Context, tenantID string) ([]membership.Membership, error) {
	var out []membership.Membership
	for _, mb := range m.memberships {
		if mb.TenantID == tenantID {
			out = append(out, mb)
		}
	}
	return out, nil
}

func (m *mockStore) SetMembershipRole(_ context.Context, userID string, role membership.Role) error {
	for i := range m.memberships {
		if m.memberships[i].UserID == userID {
			m.memberships[i].Role = role
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Refresh tokens ---

func (m *mockStore) CreateRefreshToken(_ context.Context, rt *user.RefreshToken) error {
	m.refreshTokens = append(m.refreshTokens, *rt)
	return nil
}

func (m *mockStore) GetRefreshTokenByHash(_ context.Context, hash string) (*user.RefreshToken, error) {
	for i := range m.refreshTokens {
		if m.refreshTokens[i].TokenHash == hash {
			return &m.refreshTokens[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) RotateRefreshToken(_ context.Context, oldID string, next *user.RefreshToken) error {
	for i := range m.refreshTokens {
		if m.refreshTokens[i].ID == oldID {
			m.refreshTokens = append(m.refreshTokens[:i], m.refreshTokens[i+1:]...)
			m.refreshTokens = append(m.refreshTokens, *next)
			return nil
		}
	}
	return domain.ErrConflict
}

func (m *mockStore) DeleteRefreshToken(_ context.Context, id string) error {
	for i := range m.refreshTokens {
		if m.refreshTokens[i].ID == id {
			m.refreshTokens = append(m.refreshTokens[:i], m.refreshTokens[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockStore) DeleteRefreshTokensByUser(_ context.Context, userID string) error {
	kept := m.refreshTokens[:0]
	for _, rt := range m.refreshTokens {
		if rt.UserID != userID {
			kept = append(kept, rt)
		}
	}
	m.refreshTokens = kept
	return nil
}

// --- Plans ---

func (m *mockStore) CreatePlan(_ context.Context, p *plan.Plan) error {
	for i := range m.plans {
		if m.plans[i].Slug == p.Slug {
			return domain.ErrConflict
		}
	}
	m.plans = append(m.plans, *p)
	return nil
}

func (m *mockStore) GetPlan(_ context.Context, id string) (*plan.Plan, error) {
	for i := range m.plans {
		if m.plans[i].ID == id {
			return &m.plans[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) GetPlanBySlug(_ context.Context, slug string) (*plan.Plan, error) {
	for i := range m.plans {
		if m.plans[i].Slug == slug {
			return &m.plans[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListPlans(_ context.Context) ([]plan.Plan, error) {
	return m.plans, nil
}

func (m *mockStore) UpdatePlan(_ context.Context, p *plan.Plan) error {
	for i := range m.plans {
		if m.plans[i].ID == p.ID {
			m.plans[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeletePlan(_ context.Context, id string) error {
	for i := range m.plans {
		if m.plans[i].ID == id {
			m.plans = append(m.plans[:i], m.plans[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Subscriptions ---

func (m *mockStore) GetSubscriptionByTenant(_ context.Context, tenantID string) (*subscription.Subscription, error) {
	for i := range m.subscriptions {
		if m.subscriptions[i].TenantID == tenantID {
			return &m.subscriptions[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) UpdateSubscription(_ context.Context, s *subscription.Subscription) error {
	for i := range m.subscriptions {
		if m.subscriptions[i].ID == s.ID {
			m.subscriptions[i] = *s
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Products ---

func (m *mockStore) CreateProductWithinLimit(_ context.Context, p *catalog.Product, maxProducts int64) (int64, error) {
	if m.createProductErr != nil {
		return 0, m.createProductErr
	}
	var count int64
	for i := range m.products {
		if m.products[i].TenantID == p.TenantID {
			count++
		}
	}
	if maxProducts != plan.UnlimitedProducts && count >= maxProducts {
		return count, domain.ErrLimitReached
	}
	m.products = append(m.products, *p)
	return count, nil
}

func (m *mockStore) CountProducts(_ context.Context, tenantID string) (int64, error) {
	var count int64
	for i := range m.products {
		if m.products[i].TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) GetProduct(_ context.Context, tenantID, id string) (*catalog.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id && m.products[i].TenantID == tenantID {
			return &m.products[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListProducts(_ context.Context, tenantID string, f catalog.ProductFilter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.products {
		if p.TenantID != tenantID {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		out = append(out, p)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockStore) ListProductsByIDs(_ context.Context, tenantID string, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id && p.TenantID == tenantID && p.Active {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *mockStore) UpdateProduct(_ context.Context, p *catalog.Product) error {
	for i := range m.products {
		if m.products[i].ID == p.ID {
			m.products[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteProduct(_ context.Context, tenantID, id string) error {
	for i := range m.products {
		if m.products[i].ID == id && m.products[i].TenantID == tenantID {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Categories ---

func (m *mockStore) CreateCategory(_ context.Context, c *catalog.Category) error {
	m.categories = append(m.categories, *c)
	return nil
}

func (m *mockStore) GetCategory(_ context.Context, tenantID, id string) (*catalog.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id && m.categories[i].TenantID == tenantID {
			return &m.categories[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListCategories(_ context.Context, tenantID string) ([]catalog.Category, error) {
	var out []catalog.Category
	for _, c := range m.categories {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateCategory(_ context.Context, c *catalog.Category) error {
	for i := range m.categories {
		if m.categories[i].ID == c.ID {
			m.categories[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteCategory(_ context.Context, tenantID, id string) error {
	for i := range m.categories {
		if m.categories[i].ID == id && m.categories[i].TenantID == tenantID {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Banners ---

func (m *mockStore) CreateBanner(_ context.Context, b *catalog.Banner) error {
	m.banners = append(m.banners, *b)
	return nil
}

func (m *mockStore) GetBanner(_ context.Context, tenantID, id string) (*catalog.Banner, error) {
	for i := range m.banners {
		if m.banners[i].ID == id && m.banners[i].TenantID == tenantID {
			return &m.banners[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListBanners(_ context.Context, tenantID string, activeOnly bool) ([]catalog.Banner, error) {
	var out []catalog.Banner
	for _, b := range m.banners {
		if b.TenantID != tenantID {
			continue
		}
		if activeOnly && !b.Active {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *mockStore) UpdateBanner(_ context.Context, b *catalog.Banner) error {
	for i := range m.banners {
		if m.banners[i].ID == b.ID {
			m.banners[i] = *b
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteBanner(_ context.Context, tenantID, id string) error {
	for i := range m.banners {
		if m.banners[i].ID == id && m.banners[i].TenantID == tenantID {
			m.banners = append(m.banners[:i], m.banners[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Quotes ---

func (m *mockStore) CreateQuote(_ context.Context, q *quote.Quote) error {
	m.quotes = append(m.quotes, *q)
	return nil
}

func (m *mockStore) GetQuote(_ context.Context, tenantID, id string) (*quote.Quote, error) {
	for i := range m.quotes {
		if m.quotes[i].ID == id && m.quotes[i].TenantID == tenantID {
			return &m.quotes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListQuotes(_ context.Context, tenantID string) ([]quote.Quote, error) {
	var out []quote.Quote
	for _, q := range m.quotes {
		if q.TenantID == tenantID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateQuoteStatus(_ context.Context, tenantID, id string, status quote.Status) error {
	for i := range m.quotes {
		if m.quotes[i].ID == id && m.quotes[i].TenantID == tenantID {
			m.quotes[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteQuote(_ context.Context, tenantID, id string) error {
	for i := range m.quotes {
		if m.quotes[i].ID == id && m.quotes[i].TenantID == tenantID {
			m.quotes = append(m.quotes[:i], m.quotes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Themes ---

func (m *mockStore) CreateTheme(_ context.Context, t *theme.Theme) error {
	m.themes = append(m.themes, *t)
	return nil
}

func (m *mockStore) GetTheme(_ context.Context, id string) (*theme.Theme, error) {
	for i := range m.themes {
		if m.themes[i].ID == id {
			return &m.themes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListThemes(_ context.Context, activeOnly bool) ([]theme.Theme, error) {
	var out []theme.Theme
	for _, t := range m.themes {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) UpdateTheme(_ context.Context, t *theme.Theme) error {
	for i := range m.themes {
		if m.themes[i].ID == t.ID {
			m.themes[i] = *t
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) DeleteTheme(_ context.Context, id string) error {
	for i := range m.themes {
		if m.themes[i].ID == id {
			m.themes = append(m.themes[:i], m.themes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Notifications ---

func (m *mockStore) CreateNotification(_ context.Context, n *notification.Notification) error {
	if m.notificationErr != nil {
		return m.notificationErr
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *mockStore) ListNotifications(_ context.Context, tenantID string, unreadOnly bool) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range m.notifications {
		if n.TenantID != tenantID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *mockStore) MarkNotificationRead(_ context.Context, tenantID, id string) error {
	for i := range m.notifications {
		if m.notifications[i].ID == id && m.notifications[i].TenantID == tenantID {
			m.notifications[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- Admin logs ---

func (m *mockStore) AppendAdminLog(_ context.Context, e *adminlog.Entry) error {
	if m.adminLogErr != nil {
		return m.adminLogErr
	}
	m.adminLogs = append(m.adminLogs, *e)
	return nil
}

func (m *mockStore) ListAdminLogs(_ context.Context, limit int) ([]adminlog.Entry, error) {
	if limit > 0 && len(m.adminLogs) > limit {
		return m.adminLogs[:limit], nil
	}
	return m.adminLogs, nil
}

// --- Analytics ---

func (m *mockStore) RecordEvents(_ context.Context, events []analytics.Event) error {
	if m.recordEventsErr != nil {
		return m.recordEventsErr
	}
	m.events = append(m.events, events...)
	return nil
}

func (m *mockStore) ProductCountsByTenant(_ context.Context, tenantID string) ([]analytics.ProductCounts, error) {
	byID := map[string]*analytics.ProductCounts{}
	var order []string
	for _, e := range m.events {
		if e.TenantID != tenantID {
			continue
		}
		c, ok := byID[e.ProductID]
		if !ok {
			c = &analytics.ProductCounts{ProductID: e.ProductID}
			byID[e.ProductID] = c
			order = append(order, e.ProductID)
		}
		switch e.Kind {
		case analytics.KindView:
			c.Views++
		case analytics.KindQuote:
			c.Quotes++
		}
	}
	out := make([]analytics.ProductCounts, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

// --- Port mocks ---

type mockQueue struct {
	published []struct {
		Subject string
		Data    []byte
	}
}

func (m *mockQueue) Publish(_ context.Context, subject string, data []byte) error {
	m.published = append(m.published, struct {
		Subject string
		Data    []byte
	}{subject, data})
	return nil
}

func (m *mockQueue) Subscribe(context.Context, string, messagequeue.Handler) (func(), error) {
	return func() {}, nil
}

func (m *mockQueue) Close() error { return nil }

type mockMailer struct {
	sent []mailer.Message
	err  error
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockGateway struct {
	name    string
	session *payments.CheckoutSession
	event   *payments.WebhookEvent
	err     error
}

func (m *mockGateway) Name() string { return m.name }

func (m *mockGateway) CreateCheckout(context.Context, payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	return m.session, m.err
}

func (m *mockGateway) VerifyWebhook([]byte, string) (*payments.WebhookEvent, error) {
	return m.event, m.err
}

type mockGenerator struct {
	suggestion *copywriter.Suggestion
	err        error
}

func (m *mockGenerator) Generate(context.Context, string, string) (*copywriter.Suggestion, error) {
	return m.suggestion, m.err
}
