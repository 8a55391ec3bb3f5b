// Package plan defines the priced subscription tiers.
package plan

import (
	"errors"
	"time"
)

// UnlimitedProducts is the sentinel MaxProducts value for plans without a quota.
const UnlimitedProducts = -1

// Plan is a priced tier defining the product quota and trial length.
type Plan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	PriceCents  int64     `json:"price_cents"`
	MaxProducts int64     `json:"max_products"` // -1 = unlimited
	TrialDays   int       `json:"trial_days"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"created_at"`
}

// Unlimited reports whether the plan has no product quota.
func (p *Plan) Unlimited() bool {
	return p.MaxProducts == UnlimitedProducts
}

// CreateRequest holds the fields required to create a plan.
type CreateRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	PriceCents  int64    `json:"price_cents"`
	MaxProducts int64    `json:"max_products"`
	TrialDays   int      `json:"trial_days"`
	Features    []string `json:"features"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("plan name is required")
	}
	if r.Slug == "" {
		return errors.New("plan slug is required")
	}
	if r.MaxProducts < UnlimitedProducts {
		return errors.New("max_products must be -1 (unlimited) or >= 0")
	}
	if r.TrialDays < 0 {
		return errors.New("trial_days must be >= 0")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a plan.
type UpdateRequest struct {
	Name        string   `json:"name,omitempty"`
	PriceCents  *int64   `json:"price_cents,omitempty"`
	MaxProducts *int64   `json:"max_products,omitempty"`
	TrialDays   *int     `json:"trial_days,omitempty"`
	Features    []string `json:"features,omitempty"`
}
