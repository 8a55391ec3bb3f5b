// Package theme defines the global storefront theme templates.
package theme

import (
	"errors"
	"time"
)

// Theme is a global template of CSS variables. Applying one to a tenant
// snapshots the tenant's current selection for a single-level undo.
type Theme struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Pro       bool              `json:"pro"`
	Active    bool              `json:"active"`
	CSSVars   map[string]string `json:"css_vars"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateRequest holds the fields required to create a theme.
type CreateRequest struct {
	Name    string            `json:"name"`
	Pro     bool              `json:"pro"`
	CSSVars map[string]string `json:"css_vars"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("theme name is required")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a theme.
type UpdateRequest struct {
	Name    string            `json:"name,omitempty"`
	Pro     *bool             `json:"pro,omitempty"`
	Active  *bool             `json:"active,omitempty"`
	CSSVars map[string]string `json:"css_vars,omitempty"`
}
