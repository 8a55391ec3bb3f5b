// Package payments implements the checkout gateway port for Stripe and
// Mercado Pago hosted checkout.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/port/payments"
)

// Stripe implements payments.Gateway against the Stripe Checkout API.
type Stripe struct {
	http   *resty.Client
	secret string
}

var _ payments.Gateway = (*Stripe)(nil)

// NewStripe creates a Stripe gateway from config.
func NewStripe(cfg config.Gateway) *Stripe {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(15 * time.Second)

	return &Stripe{http: http, secret: cfg.WebhookSecret}
}

// Name returns the gateway identifier used in routes.
func (s *Stripe) Name() string { return "stripe" }

type stripeSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckout starts a hosted checkout session. Stripe's API is
// form-encoded, not JSON.
func (s *Stripe) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	var session stripeSession
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"mode":                                 "subscription",
			"customer_email":                       req.Email,
			"success_url":                          req.SuccessURL,
			"cancel_url":                           req.CancelURL,
			"metadata[tenant_id]":                  req.TenantID,
			"metadata[plan_slug]":                  req.PlanSlug,
			"line_items[0][quantity]":              "1",
			"line_items[0][price_data][currency]":  "brl",
			"line_items[0][price_data][unit_amount]": strconv.FormatInt(req.PriceCents, 10),
			"line_items[0][price_data][product_data][name]": "Vitrine " + req.PlanSlug,
			"line_items[0][price_data][recurring][interval]": "month",
		}).
		SetResult(&session).
		Post("/v1/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe checkout: status %d: %s", resp.StatusCode(), resp.String())
	}

	return &payments.CheckoutSession{ID: session.ID, RedirectURL: session.URL}, nil
}

type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhook checks the Stripe-Signature header (t=...,v1=... format)
// and decodes the event into the normalized shape.
func (s *Stripe) VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	var timestamp, v1 string
	for _, part := range strings.Split(signature, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			timestamp = v
		case "v1":
			v1 = v
		}
	}
	if timestamp == "" || v1 == "" {
		return nil, fmt.Errorf("stripe webhook: malformed signature header")
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(v1)) {
		return nil, fmt.Errorf("stripe webhook: signature mismatch")
	}

	var ev stripeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("stripe webhook: decode: %w", err)
	}

	out := &payments.WebhookEvent{
		TenantID:  ev.Data.Object.Metadata["tenant_id"],
		Reference: ev.Data.Object.ID,
	}
	switch ev.Type {
	case "checkout.session.completed", "invoice.paid":
		out.Confirmed = true
	case "invoice.payment_failed", "checkout.session.expired":
		out.Confirmed = false
	default:
		return nil, fmt.Errorf("stripe webhook: unhandled event type %q", ev.Type)
	}
	return out, nil
}
