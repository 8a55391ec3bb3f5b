package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/port/database"
)

// SubscriptionService answers plan-gate questions for a tenant.
type SubscriptionService struct {
	store database.Store
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(store database.Store) *SubscriptionService {
	return &SubscriptionService{store: store}
}

// Current returns the tenant's subscription and its plan.
func (s *SubscriptionService) Current(ctx context.Context, tenantID string) (*subscription.Subscription, *plan.Plan, error) {
	sub, err := s.store.GetSubscriptionByTenant(ctx, tenantID)
	if err != nil {
		return nil, nil, fmt.Errorf("get subscription: %w", err)
	}

	p, err := s.store.GetPlan(ctx, sub.PlanID)
	if err != nil {
		return nil, nil, fmt.Errorf("get plan: %w", err)
	}
	return sub, p, nil
}

// Quota reports the tenant's product quota state. It reads the live count,
// so it is advisory only; the authoritative check runs inside the product
// insert transaction.
func (s *SubscriptionService) Quota(ctx context.Context, tenantID string) (*subscription.Quota, error) {
	sub, p, err := s.Current(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountProducts(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	q := &subscription.Quota{Current: count, Limit: p.MaxProducts}
	if sub.Blocked(time.Now()) {
		return q, nil
	}
	if p.Unlimited() {
		q.CanCreate = true
		q.Remaining = plan.UnlimitedProducts
		return q, nil
	}
	if count < p.MaxProducts {
		q.CanCreate = true
		q.Remaining = p.MaxProducts - count
	}
	return q, nil
}

// Gate returns the plan limit for catalog mutations, or an error when the
// subscription state forbids them.
func (s *SubscriptionService) Gate(ctx context.Context, tenantID string) (*plan.Plan, error) {
	sub, p, err := s.Current(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sub.TrialExpired(now) {
		return nil, fmt.Errorf("trial ended %s: %w", sub.TrialEndsAt.Format(time.DateOnly), domain.ErrTrialExpired)
	}
	if sub.Blocked(now) {
		return nil, fmt.Errorf("subscription is %s: %w", sub.Status, domain.ErrForbidden)
	}
	return p, nil
}
