// Package payments defines the checkout gateway port.
package payments

import "context"

// CheckoutRequest describes the subscription purchase to start.
type CheckoutRequest struct {
	TenantID   string
	PlanSlug   string
	PriceCents int64
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the gateway's redirect handle.
type CheckoutSession struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

// WebhookEvent is the normalized result of a gateway webhook.
type WebhookEvent struct {
	TenantID  string
	Confirmed bool // payment captured vs failed/expired
	Reference string
}

// Gateway starts hosted checkout sessions and decodes webhook callbacks.
type Gateway interface {
	// Name is the stable identifier used in routes and config ("stripe", ...).
	Name() string
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// VerifyWebhook checks the signature and decodes the payload.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
