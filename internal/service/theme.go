package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/theme"
	"github.com/vitrinehq/vitrine/internal/port/database"
)

// ThemeService manages the global theme gallery and tenant selections.
type ThemeService struct {
	store    database.Store
	subs     *SubscriptionService
	proPlans []string
	metrics  *otel.Metrics
}

// NewThemeService creates a new theme service. proPlans lists the plan
// slugs allowed to apply pro themes.
func NewThemeService(store database.Store, subs *SubscriptionService, proPlans []string, metrics *otel.Metrics) *ThemeService {
	return &ThemeService{store: store, subs: subs, proPlans: proPlans, metrics: metrics}
}

// List returns the theme gallery. Tenants see only active themes.
func (s *ThemeService) List(ctx context.Context, activeOnly bool) ([]theme.Theme, error) {
	return s.store.ListThemes(ctx, activeOnly)
}

// Apply selects a theme for the tenant. Pro themes require a plan on the
// allow-list. The previous selection is snapshotted for a one-step revert.
func (s *ThemeService) Apply(ctx context.Context, tenantID, themeID string) (*tenant.Tenant, error) {
	th, err := s.store.GetTheme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if !th.Active {
		return nil, fmt.Errorf("theme %s is retired: %w", themeID, domain.ErrNotFound)
	}

	if th.Pro {
		_, p, err := s.subs.Current(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(s.proPlans, p.Slug) {
			return nil, fmt.Errorf("theme %q requires a pro plan: %w", th.Name, domain.ErrForbidden)
		}
	}

	t, err := s.store.ApplyTheme(ctx, tenantID, themeID)
	if err != nil {
		return nil, err
	}

	s.metrics.ThemeApplies.Add(ctx, 1)
	return t, nil
}

// Revert restores the snapshotted previous theme. With no snapshot it is
// a no-op, not an error.
func (s *ThemeService) Revert(ctx context.Context, tenantID string) (*tenant.Tenant, error) {
	return s.store.RevertTheme(ctx, tenantID)
}

// Create adds a theme to the gallery (superadmin only).
func (s *ThemeService) Create(ctx context.Context, req *theme.CreateRequest) (*theme.Theme, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	th := &theme.Theme{
		ID:      generateID(),
		Name:    req.Name,
		Pro:     req.Pro,
		Active:  true,
		CSSVars: req.CSSVars,
	}
	if th.CSSVars == nil {
		th.CSSVars = map[string]string{}
	}
	if err := s.store.CreateTheme(ctx, th); err != nil {
		return nil, err
	}
	return th, nil
}

// Update modifies a gallery theme (superadmin only). Retiring a theme
// does not touch tenants already using it.
func (s *ThemeService) Update(ctx context.Context, id string, req *theme.UpdateRequest) (*theme.Theme, error) {
	th, err := s.store.GetTheme(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		th.Name = req.Name
	}
	if req.Pro != nil {
		th.Pro = *req.Pro
	}
	if req.Active != nil {
		th.Active = *req.Active
	}
	if req.CSSVars != nil {
		th.CSSVars = req.CSSVars
	}

	if err := s.store.UpdateTheme(ctx, th); err != nil {
		return nil, err
	}
	return th, nil
}

// Delete removes a gallery theme (superadmin only). Tenant selections
// pointing at it are cleared by the schema.
func (s *ThemeService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteTheme(ctx, id)
}
