package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
)

const planColumns = `id, name, slug, price_cents, max_products, trial_days, features, created_at`

func scanPlan(row scannable) (*plan.Plan, error) {
	var p plan.Plan
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.PriceCents, &p.MaxProducts,
		&p.TrialDays, &p.Features, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePlan(ctx context.Context, p *plan.Plan) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO plans (id, name, slug, price_cents, max_products, trial_days, features)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, normalizeSlug(p.Slug), p.PriceCents, p.MaxProducts, p.TrialDays,
		pgTextArray(p.Features))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create plan %s: %w", p.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

func (s *Store) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := scanPlan(s.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get plan %s", id)
	}
	return p, nil
}

func (s *Store) GetPlanBySlug(ctx context.Context, slug string) (*plan.Plan, error) {
	slug = normalizeSlug(slug)
	p, err := scanPlan(s.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE slug = $1`, slug))
	if err != nil {
		return nil, notFoundWrap(err, "get plan by slug %s", slug)
	}
	return p, nil
}

func (s *Store) ListPlans(ctx context.Context) ([]plan.Plan, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+planColumns+` FROM plans ORDER BY price_cents ASC`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []plan.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func (s *Store) UpdatePlan(ctx context.Context, p *plan.Plan) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE plans SET name = $2, price_cents = $3, max_products = $4, trial_days = $5, features = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.PriceCents, p.MaxProducts, p.TrialDays, pgTextArray(p.Features))
	return execExpectOne(tag, err, "update plan %s", p.ID)
}

func (s *Store) DeletePlan(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil && !isUniqueViolation(err) {
		// Foreign key violations surface as 23503, not 23505; let the
		// generic error mapping turn them into a conflict response.
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return execExpectOne(tag, err, "delete plan %s", id)
}

// --- Subscriptions ---

const subscriptionColumns = `id, tenant_id, plan_id, status, trial_ends_at, payment_confirmed, created_at, updated_at`

func scanSubscription(row scannable) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var status string
	err := row.Scan(&sub.ID, &sub.TenantID, &sub.PlanID, &status, &sub.TrialEndsAt,
		&sub.PaymentConfirmed, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Status = subscription.Status(status)
	return &sub, nil
}

func (s *Store) GetSubscriptionByTenant(ctx context.Context, tenantID string) (*subscription.Subscription, error) {
	sub, err := scanSubscription(s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1`, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get subscription for tenant %s", tenantID)
	}
	return sub, nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE subscriptions SET plan_id = $2, status = $3, trial_ends_at = $4, payment_confirmed = $5, updated_at = now()
		 WHERE id = $1`,
		sub.ID, sub.PlanID, string(sub.Status), sub.TrialEndsAt, sub.PaymentConfirmed)
	return execExpectOne(tag, err, "update subscription %s", sub.ID)
}
