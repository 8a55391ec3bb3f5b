package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	natsadapter "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/adminlog"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/user"
	"github.com/vitrinehq/vitrine/internal/port/cache"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
)

// SuperadminService is the cross-tenant console: tenant lifecycle, plan
// management and the audit trail. Every mutation appends an admin log
// entry; logging is best-effort and never fails the mutation.
type SuperadminService struct {
	store database.Store
	queue messagequeue.Queue
	cache cache.Cache
}

// NewSuperadminService creates a new superadmin service. The cache may be
// nil when no storefront is served (the operator CLI).
func NewSuperadminService(store database.Store, queue messagequeue.Queue, c cache.Cache) *SuperadminService {
	return &SuperadminService{store: store, queue: queue, cache: c}
}

// ListTenants returns all tenants.
func (s *SuperadminService) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	return s.store.ListTenants(ctx)
}

// GetTenant returns one tenant.
func (s *SuperadminService) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, id)
}

// SetTenantActive suspends or reinstates a tenant. A suspended tenant's
// storefront stops resolving and its staff lose catalog access.
func (s *SuperadminService) SetTenantActive(ctx context.Context, actorID, tenantID string, active bool) (*tenant.Tenant, error) {
	if err := s.store.SetTenantActive(ctx, tenantID, active); err != nil {
		return nil, err
	}

	action := "tenant.suspend"
	if active {
		action = "tenant.activate"
	}
	s.audit(ctx, actorID, &tenantID, action, nil)

	t, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !active {
		// Drop the cached home so the storefront 404s right away
		// instead of after the cache TTL.
		s.evictHome(ctx, t.Slug)
		s.notifyTenant(ctx, tenantID, "Store suspended",
			"Your store was suspended by the platform. Contact support for details.")
		s.publish(ctx, natsadapter.SubjectTenantSuspended, map[string]string{"tenant_id": tenantID})
	}

	return t, nil
}

// DeleteTenant permanently removes a tenant and all its data.
func (s *SuperadminService) DeleteTenant(ctx context.Context, actorID, tenantID string) error {
	t, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTenant(ctx, tenantID); err != nil {
		return err
	}
	s.evictHome(ctx, t.Slug)
	s.audit(ctx, actorID, &tenantID, "tenant.delete", nil)
	return nil
}

// ChangeTenantPlan moves a tenant to another plan. Lowering the limit
// below the current product count is allowed; existing products stay and
// only new creates are blocked.
func (s *SuperadminService) ChangeTenantPlan(ctx context.Context, actorID, tenantID, planSlug string) (*subscription.Subscription, error) {
	p, err := s.store.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		return nil, err
	}

	sub, err := s.store.GetSubscriptionByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sub.PlanID = p.ID
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, &tenantID, "tenant.change_plan", map[string]string{"plan": p.Slug})
	return sub, nil
}

// ExtendTrial pushes a tenant's trial end out by the given number of
// days. An already-expired trial restarts from now, so the grant is
// always worth the full extension.
func (s *SuperadminService) ExtendTrial(ctx context.Context, actorID, tenantID string, days int) (*subscription.Subscription, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", domain.ErrValidation)
	}

	sub, err := s.store.GetSubscriptionByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	from := sub.TrialEndsAt
	if now := time.Now(); from.Before(now) {
		from = now
	}
	sub.TrialEndsAt = from.AddDate(0, 0, days)
	if sub.Status == subscription.StatusInactive || sub.Status == subscription.StatusCanceled {
		sub.Status = subscription.StatusTrial
	}

	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, &tenantID, "tenant.extend_trial", map[string]string{
		"days":          fmt.Sprintf("%d", days),
		"trial_ends_at": sub.TrialEndsAt.Format(time.RFC3339),
	})
	return sub, nil
}

// RegenerateTenantSlug changes a tenant's public slug from the console.
// A slug already in use fails with a conflict and no write happens.
func (s *SuperadminService) RegenerateTenantSlug(ctx context.Context, actorID, tenantID, slug string) (*tenant.Tenant, error) {
	if err := validateSlug(slug); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	prev, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateTenantSlug(ctx, tenantID, strings.ToLower(slug)); err != nil {
		return nil, err
	}
	s.evictHome(ctx, prev.Slug)

	s.audit(ctx, actorID, &tenantID, "tenant.regenerate_slug", map[string]string{"slug": strings.ToLower(slug)})
	return s.store.GetTenant(ctx, tenantID)
}

// ListUsers returns every registered user for the console.
func (s *SuperadminService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.store.ListUsers(ctx)
}

// RecordAction appends an audit entry for a mutation carried out by
// another service on an admin's behalf (password resets).
func (s *SuperadminService) RecordAction(ctx context.Context, actorID string, tenantID *string, action string, meta map[string]string) {
	s.audit(ctx, actorID, tenantID, action, meta)
}

// SetUserRole changes the role on a user's membership, looked up by email.
// Used by the operator CLI to promote the first superadmin.
func (s *SuperadminService) SetUserRole(ctx context.Context, actorID, email string, role membership.Role) error {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.store.SetMembershipRole(ctx, u.ID, role); err != nil {
		return err
	}
	s.audit(ctx, actorID, nil, "user.set_role", map[string]string{
		"email": email,
		"role":  fmt.Sprintf("%d", role),
	})
	return nil
}

// --- Plans ---

// CreatePlan adds a new plan tier.
func (s *SuperadminService) CreatePlan(ctx context.Context, actorID string, req *plan.CreateRequest) (*plan.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p := &plan.Plan{
		ID:          generateID(),
		Name:        req.Name,
		Slug:        req.Slug,
		PriceCents:  req.PriceCents,
		MaxProducts: req.MaxProducts,
		TrialDays:   req.TrialDays,
		Features:    req.Features,
	}
	if err := s.store.CreatePlan(ctx, p); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, nil, "plan.create", map[string]string{"plan": p.Slug})
	return p, nil
}

// ListPlans returns all plans ordered by price.
func (s *SuperadminService) ListPlans(ctx context.Context) ([]plan.Plan, error) {
	return s.store.ListPlans(ctx)
}

// UpdatePlan modifies a plan. Quota changes apply to new creates only.
func (s *SuperadminService) UpdatePlan(ctx context.Context, actorID, id string, req *plan.UpdateRequest) (*plan.Plan, error) {
	p, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.MaxProducts != nil {
		if *req.MaxProducts < plan.UnlimitedProducts {
			return nil, fmt.Errorf("%w: max_products must be -1 or >= 0", domain.ErrValidation)
		}
		p.MaxProducts = *req.MaxProducts
	}
	if req.TrialDays != nil {
		p.TrialDays = *req.TrialDays
	}
	if req.Features != nil {
		p.Features = req.Features
	}

	if err := s.store.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, nil, "plan.update", map[string]string{"plan": p.Slug})
	return p, nil
}

// DeletePlan removes a plan. Plans with live subscriptions are protected
// by the schema's foreign key.
func (s *SuperadminService) DeletePlan(ctx context.Context, actorID, id string) error {
	if err := s.store.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, nil, "plan.delete", map[string]string{"plan_id": id})
	return nil
}

// ListAdminLogs returns the newest audit entries.
func (s *SuperadminService) ListAdminLogs(ctx context.Context, limit int) ([]adminlog.Entry, error) {
	return s.store.ListAdminLogs(ctx, limit)
}

// audit appends to the audit trail and mirrors the entry on the queue.
func (s *SuperadminService) audit(ctx context.Context, actorID string, tenantID *string, action string, meta map[string]string) {
	e := &adminlog.Entry{
		ID:       generateID(),
		Action:   action,
		TenantID: tenantID,
		UserID:   actorID,
		Meta:     meta,
	}
	if err := s.store.AppendAdminLog(ctx, e); err != nil {
		slog.Warn("admin log append failed", "action", action, "error", err)
	}

	payload := map[string]string{"action": action, "actor_id": actorID}
	if tenantID != nil {
		payload["tenant_id"] = *tenantID
	}
	s.publish(ctx, natsadapter.SubjectAdminAction, payload)
}

// evictHome drops a tenant's cached storefront payload, best-effort.
func (s *SuperadminService) evictHome(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, homeCacheKey(slug)); err != nil {
		slog.Warn("storefront cache evict failed", "slug", slug, "error", err)
	}
}

func (s *SuperadminService) notifyTenant(ctx context.Context, tenantID, title, body string) {
	n := &notification.Notification{
		ID:       generateID(),
		TenantID: tenantID,
		Kind:     notification.KindAdminAction,
		Title:    title,
		Body:     body,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("tenant notification failed", "tenant_id", tenantID, "error", err)
	}
}

func (s *SuperadminService) publish(ctx context.Context, subject string, payload map[string]string) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Warn("queue publish failed", "subject", subject, "error", err)
	}
}
