package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	natsadapter "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/mailer"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
)

// TenantService provisions tenants and manages their settings.
type TenantService struct {
	store  database.Store
	queue  messagequeue.Queue
	mailer mailer.Mailer
}

// NewTenantService creates a new tenant service.
func NewTenantService(store database.Store, queue messagequeue.Queue, m mailer.Mailer) *TenantService {
	return &TenantService{store: store, queue: queue, mailer: m}
}

// Provision creates a tenant with an owner membership and a trial
// subscription in one transaction. The owner must not already belong to a
// tenant; the membership's uniqueness constraint enforces that.
func (s *TenantService) Provision(ctx context.Context, ownerUserID string, req *tenant.CreateRequest) (*tenant.Tenant, error) {
	if err := validateProvision(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.store.GetPlanBySlug(ctx, req.PlanSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrValidation, req.PlanSlug)
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}

	owner, err := s.store.GetUser(ctx, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	now := time.Now()
	trialEnds := now.AddDate(0, 0, p.TrialDays)

	t := &tenant.Tenant{
		ID:                 generateID(),
		Name:               req.Name,
		Slug:               strings.ToLower(strings.TrimSpace(req.Slug)),
		Active:             true,
		SubscriptionStatus: string(subscription.StatusTrial),
		TrialEndsAt:        trialEnds,
	}
	m := &membership.Membership{
		ID:       generateID(),
		UserID:   owner.ID,
		TenantID: t.ID,
		Role:     membership.RoleOwner,
	}
	sub := &subscription.Subscription{
		ID:          generateID(),
		TenantID:    t.ID,
		PlanID:      p.ID,
		Status:      subscription.StatusTrial,
		TrialEndsAt: trialEnds,
	}

	if err := s.store.ProvisionTenant(ctx, t, m, sub); err != nil {
		return nil, fmt.Errorf("provision tenant: %w", err)
	}

	s.announce(ctx, natsadapter.SubjectTenantProvisioned, map[string]string{
		"tenant_id": t.ID,
		"slug":      t.Slug,
		"plan":      p.Slug,
	})

	if err := s.mailer.Send(ctx, mailer.Message{
		To:      owner.Email,
		Subject: "Welcome to Vitrine",
		HTML: fmt.Sprintf("<p>Your store <strong>%s</strong> is live at /loja/%s. Your %d-day trial ends on %s.</p>",
			t.Name, t.Slug, p.TrialDays, trialEnds.Format("January 2, 2006")),
	}); err != nil {
		slog.Warn("welcome mail failed", "tenant_id", t.ID, "error", err)
	}

	return t, nil
}

// Get returns the caller's tenant.
func (s *TenantService) Get(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, tenantID)
}

// Update applies the merchant-editable settings.
func (s *TenantService) Update(ctx context.Context, tenantID string, req *tenant.UpdateRequest) (*tenant.Tenant, error) {
	t, err := s.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		t.Name = req.Name
	}
	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return nil, fmt.Errorf("update tenant: %w", err)
	}
	return t, nil
}

// UpdateSlug changes the public storefront slug. The old slug stops
// resolving immediately.
func (s *TenantService) UpdateSlug(ctx context.Context, tenantID, slug string) (*tenant.Tenant, error) {
	if err := validateSlug(slug); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	if err := s.store.UpdateTenantSlug(ctx, tenantID, strings.ToLower(slug)); err != nil {
		return nil, err
	}
	return s.store.GetTenant(ctx, tenantID)
}

// Members lists the tenant's memberships.
func (s *TenantService) Members(ctx context.Context, tenantID string) ([]membership.Membership, error) {
	return s.store.ListMembershipsByTenant(ctx, tenantID)
}

// announce publishes a queue event, logging instead of failing.
func (s *TenantService) announce(ctx context.Context, subject string, payload map[string]string) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Warn("queue publish failed", "subject", subject, "error", err)
	}
}

func validateProvision(req *tenant.CreateRequest) error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.PlanSlug == "" {
		return errors.New("plan_slug is required")
	}
	return validateSlug(req.Slug)
}

// validateSlug enforces the URL-safe slug shape: lowercase letters,
// digits and hyphens, no leading/trailing hyphen.
func validateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}
	if len(slug) > 63 {
		return errors.New("slug must be at most 63 characters")
	}
	s := strings.ToLower(slug)
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-':
			if i == 0 || i == len(s)-1 {
				return errors.New("slug cannot start or end with a hyphen")
			}
		default:
			return errors.New("slug may only contain letters, digits and hyphens")
		}
	}
	return nil
}
