// Package quote defines customer quote requests and their line items.
package quote

import (
	"errors"
	"time"
)

// Status is the quote lifecycle state.
type Status string

const (
	StatusOpen     Status = "open"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ValidStatuses is the set of all valid quote statuses.
var ValidStatuses = map[Status]bool{
	StatusOpen:     true,
	StatusSent:     true,
	StatusAccepted: true,
	StatusRejected: true,
}

// Quote is a customer's request for pricing on a set of products.
type Quote struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Status        Status    `json:"status"`
	Note          string    `json:"note,omitempty"`
	Items         []Item    `json:"items,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Item is a product line on a quote.
type Item struct {
	ID             string `json:"id"`
	QuoteID        string `json:"quote_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// CreateRequest holds the fields required to create a quote.
type CreateRequest struct {
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	Note          string        `json:"note"`
	Items         []ItemRequest `json:"items"`
}

// ItemRequest is a product line on a quote creation request.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.CustomerName == "" {
		return errors.New("customer name is required")
	}
	if r.CustomerEmail == "" {
		return errors.New("customer email is required")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, it := range r.Items {
		if it.ProductID == "" {
			return errors.New("item product_id is required")
		}
		if it.Quantity < 1 {
			return errors.New("item quantity must be >= 1")
		}
	}
	return nil
}
