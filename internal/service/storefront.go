package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/analytics"
	"github.com/vitrinehq/vitrine/internal/domain/catalog"
	"github.com/vitrinehq/vitrine/internal/domain/storefront"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/port/cache"
	"github.com/vitrinehq/vitrine/internal/port/database"
)

// StorefrontService serves the public, unauthenticated read side keyed by
// tenant slug. Home payloads are cached briefly; everything else reads
// through.
type StorefrontService struct {
	store   database.Store
	cache   cache.Cache
	policy  storefront.PopularityPolicy
	topN    int
	ttl     time.Duration
	metrics *otel.Metrics
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(store database.Store, c cache.Cache, cfg config.Storefront, ttl time.Duration, metrics *otel.Metrics) *StorefrontService {
	return &StorefrontService{
		store:   store,
		cache:   c,
		policy:  storefront.PopularityPolicy{QuoteWeight: cfg.QuoteWeight},
		topN:    cfg.BestSellerLimit,
		ttl:     ttl,
		metrics: metrics,
	}
}

// homeCacheKey names the cached home payload for a slug. Admin mutations
// that change what shoppers may see evict this key.
func homeCacheKey(slug string) string {
	return "storefront:home:" + slug
}

// ResolveStore maps a public slug to a live tenant. Slugs are stored
// lowercase, so the lookup is case-insensitive. Suspended or deleted
// tenants resolve to not found; shoppers never learn the difference.
func (s *StorefrontService) ResolveStore(ctx context.Context, slug string) (*tenant.Tenant, error) {
	slug = strings.ToLower(slug)
	t, err := s.store.GetTenantBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, fmt.Errorf("store %s is suspended: %w", slug, domain.ErrNotFound)
	}
	return t, nil
}

// Home returns the storefront landing payload: store info with theme
// variables, categories, active banners and the best sellers. The
// sub-reads fan out concurrently.
func (s *StorefrontService) Home(ctx context.Context, slug string) (*storefront.Home, error) {
	s.metrics.StorefrontReads.Add(ctx, 1)

	slug = strings.ToLower(slug)
	key := homeCacheKey(slug)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var home storefront.Home
		if err := json.Unmarshal(data, &home); err == nil {
			return &home, nil
		}
	}
	s.metrics.StorefrontMisses.Add(ctx, 1)

	t, err := s.ResolveStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	home := &storefront.Home{
		Store: storefront.StoreInfo{Name: t.Name, Slug: t.Slug},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if t.SelectedThemeID == nil {
			return nil
		}
		th, err := s.store.GetTheme(gctx, *t.SelectedThemeID)
		if err != nil {
			// A vanished theme degrades to the default look.
			slog.Warn("selected theme missing", "tenant_id", t.ID, "theme_id", *t.SelectedThemeID)
			return nil
		}
		home.Store.CSSVars = th.CSSVars
		return nil
	})

	g.Go(func() error {
		categories, err := s.store.ListCategories(gctx, t.ID)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		home.Categories = categories
		return nil
	})

	g.Go(func() error {
		banners, err := s.store.ListBanners(gctx, t.ID, true)
		if err != nil {
			return fmt.Errorf("banners: %w", err)
		}
		home.Banners = banners
		return nil
	})

	g.Go(func() error {
		top, err := s.bestSellers(gctx, t.ID)
		if err != nil {
			return fmt.Errorf("best sellers: %w", err)
		}
		home.TopProducts = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if data, err := json.Marshal(home); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return home, nil
}

// ListProducts returns the store's active products with the shopper's
// filter applied.
func (s *StorefrontService) ListProducts(ctx context.Context, slug string, f catalog.ProductFilter) ([]catalog.Product, error) {
	t, err := s.ResolveStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	f.ActiveOnly = true
	if f.Sort != "" && !catalog.ValidSorts[f.Sort] {
		return nil, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, f.Sort)
	}
	return s.store.ListProducts(ctx, t.ID, f)
}

// Categories returns the store's categories.
func (s *StorefrontService) Categories(ctx context.Context, slug string) ([]catalog.Category, error) {
	t, err := s.ResolveStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, t.ID)
}

// BestSellers returns the store's top products by popularity rank.
func (s *StorefrontService) BestSellers(ctx context.Context, slug string) ([]catalog.Product, error) {
	t, err := s.ResolveStore(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.bestSellers(ctx, t.ID)
}

// Product returns one active product and records the view event that
// feeds the popularity ranking.
func (s *StorefrontService) Product(ctx context.Context, slug, productID string) (*catalog.Product, error) {
	t, err := s.ResolveStore(ctx, slug)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, t.ID, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("product %s is inactive: %w", productID, domain.ErrNotFound)
	}

	ev := []analytics.Event{{
		ID:        generateID(),
		TenantID:  t.ID,
		ProductID: p.ID,
		Kind:      analytics.KindView,
	}}
	if err := s.store.RecordEvents(ctx, ev); err != nil {
		slog.Warn("view event failed", "product_id", p.ID, "error", err)
	}

	return p, nil
}

// bestSellers ranks products by weighted views and quote appearances,
// then loads them preserving rank order. Inactive products fall out at
// the load step.
func (s *StorefrontService) bestSellers(ctx context.Context, tenantID string) ([]catalog.Product, error) {
	counts, err := s.store.ProductCountsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ids := s.policy.Rank(counts, s.topN)
	if len(ids) == 0 {
		// No signal yet: fall back to newest actives.
		return s.store.ListProducts(ctx, tenantID, catalog.ProductFilter{
			ActiveOnly: true,
			Sort:       catalog.SortNewest,
			Limit:      s.topN,
		})
	}

	return s.store.ListProductsByIDs(ctx, tenantID, ids)
}
