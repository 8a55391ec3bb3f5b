// Package copywriter defines the generative product-copy port.
package copywriter

import "context"

// Suggestion is generated marketing copy for a product.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Generator produces copy suggestions from a product name and hints.
type Generator interface {
	Generate(ctx context.Context, productName, hints string) (*Suggestion, error)
}
