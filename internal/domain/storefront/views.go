package storefront

import (
	"github.com/vitrinehq/vitrine/internal/domain/catalog"
)

// StoreInfo is the public projection of a tenant exposed on storefront routes.
type StoreInfo struct {
	Name    string            `json:"name"`
	Slug    string            `json:"slug"`
	CSSVars map[string]string `json:"css_vars,omitempty"`
}

// Home is the aggregate payload for the storefront landing page.
type Home struct {
	Store       StoreInfo          `json:"store"`
	Categories  []catalog.Category `json:"categories"`
	Banners     []catalog.Banner   `json:"banners"`
	TopProducts []catalog.Product  `json:"top_products"`
}
