package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/catalog"
	"github.com/vitrinehq/vitrine/internal/domain/plan"
)

const productColumns = `id, tenant_id, category_id, name, description, price_cents, image_url, active, created_at, updated_at`

func scanProduct(row scannable) (*catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.CategoryID, &p.Name, &p.Description,
		&p.PriceCents, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProductWithinLimit(ctx context.Context, p *catalog.Product, maxProducts int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("create product: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialize concurrent creates for the same tenant on the tenant row,
	// so the count below cannot go stale before the insert.
	var tenantID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM tenants WHERE id = $1 FOR UPDATE`, p.TenantID).Scan(&tenantID)
	if err != nil {
		return 0, notFoundWrap(err, "create product: lock tenant %s", p.TenantID)
	}

	var current int64
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE tenant_id = $1`, p.TenantID).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("create product: count: %w", err)
	}

	if maxProducts != plan.UnlimitedProducts && current >= maxProducts {
		return current, fmt.Errorf("tenant %s has %d of %d products: %w",
			p.TenantID, current, maxProducts, domain.ErrLimitReached)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO products (id, tenant_id, category_id, name, description, price_cents, image_url, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Active)
	if err != nil {
		return current, fmt.Errorf("create product: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return current, fmt.Errorf("create product: commit: %w", err)
	}
	return current, nil
}

func (s *Store) CountProducts(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count products for tenant %s: %w", tenantID, err)
	}
	return n, nil
}

func (s *Store) GetProduct(ctx context.Context, tenantID, id string) (*catalog.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get product %s", id)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, tenantID string, f catalog.ProductFilter) ([]catalog.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1`
	args := []any{tenantID}

	if f.ActiveOnly {
		query += ` AND active = true`
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}

	switch f.Sort {
	case catalog.SortPriceAsc:
		query += ` ORDER BY price_cents ASC, created_at DESC`
	case catalog.SortPriceDesc:
		query += ` ORDER BY price_cents DESC, created_at DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) ListProductsByIDs(ctx context.Context, tenantID string, ids []string) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = ANY($2) AND active = true`,
		tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]catalog.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's ranking order.
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET category_id = $3, name = $4, description = $5, price_cents = $6, image_url = $7, active = $8, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2`,
		p.ID, p.TenantID, p.CategoryID, p.Name, p.Description, p.PriceCents, p.ImageURL, p.Active)
	return execExpectOne(tag, err, "update product %s", p.ID)
}

func (s *Store) DeleteProduct(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete product %s", id)
}

// --- Categories ---

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, position) VALUES ($1, $2, $3, $4)`,
		c.ID, c.TenantID, c.Name, c.Position)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *Store) GetCategory(ctx context.Context, tenantID, id string) (*catalog.Category, error) {
	var c catalog.Category
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, position, created_at FROM categories WHERE id = $1 AND tenant_id = $2`,
		id, tenantID).Scan(&c.ID, &c.TenantID, &c.Name, &c.Position, &c.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get category %s", id)
	}
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context, tenantID string) ([]catalog.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, position, created_at FROM categories
		 WHERE tenant_id = $1 ORDER BY position ASC, name ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c *catalog.Category) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $3, position = $4 WHERE id = $1 AND tenant_id = $2`,
		c.ID, c.TenantID, c.Name, c.Position)
	return execExpectOne(tag, err, "update category %s", c.ID)
}

func (s *Store) DeleteCategory(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete category %s", id)
}

// --- Banners ---

const bannerColumns = `id, tenant_id, title, image_url, link_url, position, active, created_at`

func scanBanner(row scannable) (*catalog.Banner, error) {
	var b catalog.Banner
	err := row.Scan(&b.ID, &b.TenantID, &b.Title, &b.ImageURL, &b.LinkURL,
		&b.Position, &b.Active, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBanner(ctx context.Context, b *catalog.Banner) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO banners (id, tenant_id, title, image_url, link_url, position, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.TenantID, b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active)
	if err != nil {
		return fmt.Errorf("create banner: %w", err)
	}
	return nil
}

func (s *Store) GetBanner(ctx context.Context, tenantID, id string) (*catalog.Banner, error) {
	b, err := scanBanner(s.pool.QueryRow(ctx,
		`SELECT `+bannerColumns+` FROM banners WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get banner %s", id)
	}
	return b, nil
}

func (s *Store) ListBanners(ctx context.Context, tenantID string, activeOnly bool) ([]catalog.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY position ASC`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var banners []catalog.Banner
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan banner: %w", err)
		}
		banners = append(banners, *b)
	}
	return banners, rows.Err()
}

func (s *Store) UpdateBanner(ctx context.Context, b *catalog.Banner) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE banners SET title = $3, image_url = $4, link_url = $5, position = $6, active = $7
		 WHERE id = $1 AND tenant_id = $2`,
		b.ID, b.TenantID, b.Title, b.ImageURL, b.LinkURL, b.Position, b.Active)
	return execExpectOne(tag, err, "update banner %s", b.ID)
}

func (s *Store) DeleteBanner(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM banners WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete banner %s", id)
}
