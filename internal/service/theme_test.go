package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/theme"
)

func newThemeService(store *mockStore, t *testing.T) *ThemeService {
	return NewThemeService(store, NewSubscriptionService(store), []string{"pro", "business"}, testMetrics(t))
}

func seedThemes(store *mockStore) {
	store.themes = append(store.themes,
		theme.Theme{ID: "th-free", Name: "Classic", Active: true, CSSVars: map[string]string{"--bg": "#fff"}},
		theme.Theme{ID: "th-pro", Name: "Boutique", Pro: true, Active: true},
		theme.Theme{ID: "th-retired", Name: "Vintage", Active: false},
	)
	store.tenants = append(store.tenants, tenant.Tenant{ID: "t1", Slug: "loja", Active: true})
}

func TestThemeApply(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	seedSubscribedTenant(store, 10, subscription.StatusActive, time.Time{})
	svc := newThemeService(store, t)

	got, err := svc.Apply(context.Background(), "t1", "th-free")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.SelectedThemeID == nil || *got.SelectedThemeID != "th-free" {
		t.Errorf("selected = %v", got.SelectedThemeID)
	}
}

func TestThemeApplySnapshotsPrevious(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	seedSubscribedTenant(store, 10, subscription.StatusActive, time.Time{})
	svc := newThemeService(store, t)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "t1", "th-free"); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	// Switch to the pro theme on a free plan is forbidden; stay on free ones.
	store.themes = append(store.themes, theme.Theme{ID: "th-free2", Name: "Minimal", Active: true})
	got, err := svc.Apply(ctx, "t1", "th-free2")
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if got.PreviousThemeID == nil || *got.PreviousThemeID != "th-free" {
		t.Errorf("previous = %v, want th-free", got.PreviousThemeID)
	}

	reverted, err := svc.Revert(ctx, "t1")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if reverted.SelectedThemeID == nil || *reverted.SelectedThemeID != "th-free" {
		t.Errorf("selected after revert = %v, want th-free", reverted.SelectedThemeID)
	}
}

func TestThemeRevertWithoutSnapshotIsNoop(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	svc := newThemeService(store, t)

	got, err := svc.Revert(context.Background(), "t1")
	if err != nil {
		t.Fatalf("revert: %v", err)
	}
	if got.SelectedThemeID != nil {
		t.Errorf("selected = %v, want nil", got.SelectedThemeID)
	}
}

func TestThemeApplyProRequiresProPlan(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	seedSubscribedTenant(store, 10, subscription.StatusActive, time.Time{}) // slug "plan", not on allow-list
	svc := newThemeService(store, t)

	_, err := svc.Apply(context.Background(), "t1", "th-pro")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.tenants[0].SelectedThemeID != nil {
		t.Error("forbidden apply must not change the selection")
	}
}

func TestThemeApplyProOnProPlan(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	seedSubscribedTenant(store, 200, subscription.StatusActive, time.Time{})
	store.plans[0].Slug = "pro"
	svc := newThemeService(store, t)

	got, err := svc.Apply(context.Background(), "t1", "th-pro")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got.SelectedThemeID == nil || *got.SelectedThemeID != "th-pro" {
		t.Errorf("selected = %v", got.SelectedThemeID)
	}
}

func TestThemeApplyRetired(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	svc := newThemeService(store, t)

	if _, err := svc.Apply(context.Background(), "t1", "th-retired"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestThemeListActiveOnly(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	svc := newThemeService(store, t)

	all, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	active, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(all) != 3 || len(active) != 2 {
		t.Errorf("all=%d active=%d", len(all), len(active))
	}
}

func TestThemeRetireKeepsTenantSelection(t *testing.T) {
	store := &mockStore{}
	seedThemes(store)
	seedSubscribedTenant(store, 10, subscription.StatusActive, time.Time{})
	svc := newThemeService(store, t)
	ctx := context.Background()

	if _, err := svc.Apply(ctx, "t1", "th-free"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	off := false
	if _, err := svc.Update(ctx, "th-free", &theme.UpdateRequest{Active: &off}); err != nil {
		t.Fatalf("retire: %v", err)
	}
	if store.tenants[0].SelectedThemeID == nil || *store.tenants[0].SelectedThemeID != "th-free" {
		t.Error("retiring a theme must not touch tenants already using it")
	}
}

func TestThemeCreateValidation(t *testing.T) {
	store := &mockStore{}
	svc := newThemeService(store, t)

	if _, err := svc.Create(context.Background(), &theme.CreateRequest{}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	th, err := svc.Create(context.Background(), &theme.CreateRequest{Name: "Neon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !th.Active || th.CSSVars == nil {
		t.Errorf("theme = %+v", th)
	}
}
