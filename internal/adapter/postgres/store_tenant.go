package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
)

const tenantColumns = `id, name, slug, active, subscription_status, trial_ends_at,
	selected_theme_id, previous_theme_id, created_at, updated_at`

func scanTenant(row scannable) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.SubscriptionStatus,
		&t.TrialEndsAt, &t.SelectedThemeID, &t.PreviousThemeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant %s", id)
	}
	return t, nil
}

func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	slug = normalizeSlug(slug)
	t, err := scanTenant(s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if err != nil {
		return nil, notFoundWrap(err, "get tenant by slug %s", slug)
	}
	return t, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

func (s *Store) UpdateTenant(ctx context.Context, t *tenant.Tenant) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET name = $2, subscription_status = $3, trial_ends_at = $4, updated_at = now()
		 WHERE id = $1`,
		t.ID, t.Name, t.SubscriptionStatus, t.TrialEndsAt)
	return execExpectOne(tag, err, "update tenant %s", t.ID)
}

func (s *Store) SetTenantActive(ctx context.Context, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	return execExpectOne(tag, err, "set tenant %s active=%t", id, active)
}

func (s *Store) UpdateTenantSlug(ctx context.Context, id, slug string) error {
	slug = normalizeSlug(slug)
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET slug = $2, updated_at = now() WHERE id = $1`, id, slug)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("update tenant %s slug: %w", id, domain.ErrConflict)
	}
	return execExpectOne(tag, err, "update tenant %s slug", id)
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	// Tenant-scoped rows go with the tenant via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete tenant %s", id)
}

func (s *Store) ProvisionTenant(ctx context.Context, t *tenant.Tenant, owner *membership.Membership, sub *subscription.Subscription) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("provision tenant: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO tenants (id, name, slug, active, subscription_status, trial_ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Name, normalizeSlug(t.Slug), t.Active, t.SubscriptionStatus, t.TrialEndsAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("provision tenant slug %s: %w", t.Slug, domain.ErrConflict)
		}
		return fmt.Errorf("provision tenant: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO memberships (id, user_id, tenant_id, role) VALUES ($1, $2, $3, $4)`,
		owner.ID, owner.UserID, owner.TenantID, int(owner.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("provision membership for user %s: %w", owner.UserID, domain.ErrConflict)
		}
		return fmt.Errorf("provision membership: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO subscriptions (id, tenant_id, plan_id, status, trial_ends_at, payment_confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.TenantID, sub.PlanID, string(sub.Status), sub.TrialEndsAt, sub.PaymentConfirmed)
	if err != nil {
		return fmt.Errorf("provision subscription: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) ApplyTheme(ctx context.Context, tenantID, themeID string) (*tenant.Tenant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply theme: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the tenant row so concurrent applies serialize instead of
	// clobbering each other's previous_theme_id snapshot.
	var selected *string
	err = tx.QueryRow(ctx,
		`SELECT selected_theme_id FROM tenants WHERE id = $1 FOR UPDATE`, tenantID).
		Scan(&selected)
	if err != nil {
		return nil, notFoundWrap(err, "apply theme: lock tenant %s", tenantID)
	}

	t, err := scanTenant(tx.QueryRow(ctx,
		`UPDATE tenants SET previous_theme_id = selected_theme_id, selected_theme_id = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING `+tenantColumns, tenantID, themeID))
	if err != nil {
		return nil, fmt.Errorf("apply theme %s to tenant %s: %w", themeID, tenantID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("apply theme: commit: %w", err)
	}
	return t, nil
}

func (s *Store) RevertTheme(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("revert theme: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var previous *string
	err = tx.QueryRow(ctx,
		`SELECT previous_theme_id FROM tenants WHERE id = $1 FOR UPDATE`, tenantID).
		Scan(&previous)
	if err != nil {
		return nil, notFoundWrap(err, "revert theme: lock tenant %s", tenantID)
	}

	// No snapshot recorded: a second revert is a no-op.
	if previous == nil {
		t, err := scanTenant(tx.QueryRow(ctx,
			`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, tenantID))
		if err != nil {
			return nil, notFoundWrap(err, "revert theme: reload tenant %s", tenantID)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("revert theme: commit: %w", err)
		}
		return t, nil
	}

	t, err := scanTenant(tx.QueryRow(ctx,
		`UPDATE tenants SET selected_theme_id = previous_theme_id, previous_theme_id = NULL, updated_at = now()
		 WHERE id = $1
		 RETURNING `+tenantColumns, tenantID))
	if err != nil {
		return nil, fmt.Errorf("revert theme for tenant %s: %w", tenantID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("revert theme: commit: %w", err)
	}
	return t, nil
}
