// Package catalog defines the tenant-scoped catalog rows: products,
// categories and banners.
package catalog

import (
	"errors"
	"time"
)

// Product is a catalog item scoped by tenant.
type Product struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProductRequest holds the fields required to create a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id,omitempty"`
	PriceCents  int64   `json:"price_cents"`
	ImageURL    string  `json:"image_url"`
}

// Validate checks that the CreateProductRequest has all required fields.
func (r *CreateProductRequest) Validate() error {
	if r.Name == "" {
		return errors.New("product name is required")
	}
	if r.PriceCents < 0 {
		return errors.New("price must be >= 0")
	}
	return nil
}

// UpdateProductRequest holds the fields that can be updated on a product.
type UpdateProductRequest struct {
	Name        string  `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ProductFilter selects products on storefront and dashboard listings.
type ProductFilter struct {
	CategoryID string
	Query      string
	Sort       ProductSort
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductSort is an ordering for product listings.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
)

// ValidSorts is the set of accepted product orderings.
var ValidSorts = map[ProductSort]bool{
	SortNewest:    true,
	SortPriceAsc:  true,
	SortPriceDesc: true,
}
