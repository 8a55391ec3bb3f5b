package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/catalog"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/port/copywriter"
	"github.com/vitrinehq/vitrine/internal/port/database"
)

// CatalogService manages products, categories and banners for a tenant.
type CatalogService struct {
	store   database.Store
	subs    *SubscriptionService
	copy    copywriter.Generator
	metrics *otel.Metrics
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store database.Store, subs *SubscriptionService, gen copywriter.Generator, metrics *otel.Metrics) *CatalogService {
	return &CatalogService{store: store, subs: subs, copy: gen, metrics: metrics}
}

// CreateProduct inserts a product under the plan's quota. The count check
// and the insert run in one transaction, so concurrent creates cannot
// overshoot the limit. Hitting the limit raises a dashboard notification.
func (s *CatalogService) CreateProduct(ctx context.Context, tenantID string, req *catalog.CreateProductRequest) (*catalog.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	p, err := s.subs.Gate(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	product := &catalog.Product{
		ID:          generateID(),
		TenantID:    tenantID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Active:      true,
	}

	count, err := s.store.CreateProductWithinLimit(ctx, product, p.MaxProducts)
	if err != nil {
		if errors.Is(err, domain.ErrLimitReached) {
			s.metrics.LimitRejections.Add(ctx, 1)
			s.notifyLimit(ctx, tenantID, count, p.MaxProducts)
		}
		return nil, err
	}

	s.metrics.ProductsCreated.Add(ctx, 1)
	return product, nil
}

// GetProduct returns one of the tenant's products.
func (s *CatalogService) GetProduct(ctx context.Context, tenantID, id string) (*catalog.Product, error) {
	return s.store.GetProduct(ctx, tenantID, id)
}

// ListProducts returns the tenant's products with the given filter.
func (s *CatalogService) ListProducts(ctx context.Context, tenantID string, f catalog.ProductFilter) ([]catalog.Product, error) {
	if f.Sort != "" && !catalog.ValidSorts[f.Sort] {
		return nil, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, f.Sort)
	}
	return s.store.ListProducts(ctx, tenantID, f)
}

// UpdateProduct applies a partial update to a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, tenantID, id string, req *catalog.UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.store.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", domain.ErrValidation)
		}
		product.PriceCents = *req.PriceCents
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product. Deleting frees quota immediately.
func (s *CatalogService) DeleteProduct(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteProduct(ctx, tenantID, id)
}

// SuggestCopy generates a title and description for a product via the
// configured copywriting backend.
func (s *CatalogService) SuggestCopy(ctx context.Context, productName, hints string) (*copywriter.Suggestion, error) {
	if productName == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	return s.copy.Generate(ctx, productName, hints)
}

// --- Categories ---

// CreateCategory creates a category.
func (s *CatalogService) CreateCategory(ctx context.Context, tenantID string, req *catalog.CreateCategoryRequest) (*catalog.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	c := &catalog.Category{
		ID:       generateID(),
		TenantID: tenantID,
		Name:     req.Name,
		Position: req.Position,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns the tenant's categories ordered by position.
func (s *CatalogService) ListCategories(ctx context.Context, tenantID string) ([]catalog.Category, error) {
	return s.store.ListCategories(ctx, tenantID)
}

// UpdateCategory applies a partial update to a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, tenantID, id string, req *catalog.UpdateCategoryRequest) (*catalog.Category, error) {
	c, err := s.store.GetCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	if req.Position != nil {
		c.Position = *req.Position
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category. Products keep existing with their
// category cleared.
func (s *CatalogService) DeleteCategory(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteCategory(ctx, tenantID, id)
}

// --- Banners ---

// CreateBanner creates a banner.
func (s *CatalogService) CreateBanner(ctx context.Context, tenantID string, req *catalog.CreateBannerRequest) (*catalog.Banner, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	b := &catalog.Banner{
		ID:       generateID(),
		TenantID: tenantID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		Active:   true,
	}
	if err := s.store.CreateBanner(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBanners returns the tenant's banners.
func (s *CatalogService) ListBanners(ctx context.Context, tenantID string) ([]catalog.Banner, error) {
	return s.store.ListBanners(ctx, tenantID, false)
}

// UpdateBanner applies a partial update to a banner.
func (s *CatalogService) UpdateBanner(ctx context.Context, tenantID, id string, req *catalog.UpdateBannerRequest) (*catalog.Banner, error) {
	b, err := s.store.GetBanner(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		b.Title = req.Title
	}
	if req.ImageURL != nil {
		b.ImageURL = *req.ImageURL
	}
	if req.LinkURL != nil {
		b.LinkURL = *req.LinkURL
	}
	if req.Position != nil {
		b.Position = *req.Position
	}
	if req.Active != nil {
		b.Active = *req.Active
	}

	if err := s.store.UpdateBanner(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBanner removes a banner.
func (s *CatalogService) DeleteBanner(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteBanner(ctx, tenantID, id)
}

// notifyLimit records the quota-hit notification, best-effort.
func (s *CatalogService) notifyLimit(ctx context.Context, tenantID string, current, limit int64) {
	n := &notification.Notification{
		ID:       generateID(),
		TenantID: tenantID,
		Kind:     notification.KindLimitReached,
		Title:    "Product limit reached",
		Body:     fmt.Sprintf("Your plan allows %d products and you have %d. Upgrade to add more.", limit, current),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("limit notification failed", "tenant_id", tenantID, "error", err)
	}
}
