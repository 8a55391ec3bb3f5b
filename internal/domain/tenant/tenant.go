// Package tenant defines the tenant domain model for multi-tenancy.
package tenant

import "time"

// Tenant represents a merchant account, the unit of data isolation.
// Slug is the public routing key for the storefront; it is stored lowercase
// and looked up case-insensitively.
type Tenant struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Active             bool      `json:"active"`
	SubscriptionStatus string    `json:"subscription_status"`
	TrialEndsAt        time.Time `json:"trial_ends_at"`
	SelectedThemeID    *string   `json:"selected_theme_id,omitempty"`
	PreviousThemeID    *string   `json:"previous_theme_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateRequest holds the fields required to provision a new tenant.
type CreateRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	PlanSlug string `json:"plan_slug"`
}

// UpdateRequest holds the fields tenant staff can update.
type UpdateRequest struct {
	Name string `json:"name,omitempty"`
}
