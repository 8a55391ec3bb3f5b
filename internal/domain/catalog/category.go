package catalog

import (
	"errors"
	"time"
)

// Category groups products within a tenant's storefront.
type Category struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCategoryRequest holds the fields required to create a category.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Validate checks that the CreateCategoryRequest has all required fields.
func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" {
		return errors.New("category name is required")
	}
	return nil
}

// UpdateCategoryRequest holds the fields that can be updated on a category.
type UpdateCategoryRequest struct {
	Name     string `json:"name,omitempty"`
	Position *int   `json:"position,omitempty"`
}
