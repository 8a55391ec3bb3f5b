// Package analytics defines the raw events that feed popularity ranking.
package analytics

import "time"

// EventKind classifies an analytics event.
type EventKind string

const (
	// KindView is recorded when a shopper opens a product page.
	KindView EventKind = "view"
	// KindQuote is recorded when a product appears on a created quote.
	KindQuote EventKind = "quote"
)

// Event is one raw analytics row.
type Event struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	ProductID string    `json:"product_id"`
	Kind      EventKind `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductCounts aggregates the per-product event totals for a tenant.
type ProductCounts struct {
	ProductID string `json:"product_id"`
	Views     int64  `json:"views"`
	Quotes    int64  `json:"quotes"`
}
