package catalog

import (
	"errors"
	"time"
)

// Banner is a promotional image slot on the storefront.
type Banner struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	LinkURL   string    `json:"link_url,omitempty"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBannerRequest holds the fields required to create a banner.
type CreateBannerRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
}

// Validate checks that the CreateBannerRequest has all required fields.
func (r *CreateBannerRequest) Validate() error {
	if r.Title == "" {
		return errors.New("banner title is required")
	}
	if r.ImageURL == "" {
		return errors.New("banner image_url is required")
	}
	return nil
}

// UpdateBannerRequest holds the fields that can be updated on a banner.
type UpdateBannerRequest struct {
	Title    string  `json:"title,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
	LinkURL  *string `json:"link_url,omitempty"`
	Position *int    `json:"position,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}
