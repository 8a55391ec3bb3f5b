package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/port/payments"
)

// MercadoPago implements payments.Gateway against the Mercado Pago
// Checkout Pro preferences API.
type MercadoPago struct {
	http   *resty.Client
	secret string
}

var _ payments.Gateway = (*MercadoPago)(nil)

// NewMercadoPago creates a Mercado Pago gateway from config.
func NewMercadoPago(cfg config.Gateway) *MercadoPago {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(15 * time.Second)

	return &MercadoPago{http: http, secret: cfg.WebhookSecret}
}

// Name returns the gateway identifier used in routes.
func (m *MercadoPago) Name() string { return "mercadopago" }

type mpPreferenceRequest struct {
	Items             []mpItem  `json:"items"`
	Payer             mpPayer   `json:"payer"`
	BackURLs          mpBackURL `json:"back_urls"`
	AutoReturn        string    `json:"auto_return"`
	ExternalReference string    `json:"external_reference"`
}

type mpItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type mpPayer struct {
	Email string `json:"email"`
}

type mpBackURL struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

type mpPreference struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// CreateCheckout creates a Checkout Pro preference. The tenant ID rides on
// external_reference so the webhook can route the result.
func (m *MercadoPago) CreateCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	var pref mpPreference
	resp, err := m.http.R().
		SetContext(ctx).
		SetBody(mpPreferenceRequest{
			Items: []mpItem{{
				Title:     "Vitrine " + req.PlanSlug,
				Quantity:  1,
				UnitPrice: float64(req.PriceCents) / 100,
			}},
			Payer:             mpPayer{Email: req.Email},
			BackURLs:          mpBackURL{Success: req.SuccessURL, Failure: req.CancelURL},
			AutoReturn:        "approved",
			ExternalReference: req.TenantID,
		}).
		SetResult(&pref).
		Post("/checkout/preferences")
	if err != nil {
		return nil, fmt.Errorf("mercadopago checkout: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("mercadopago checkout: status %d: %s", resp.StatusCode(), resp.String())
	}

	return &payments.CheckoutSession{ID: pref.ID, RedirectURL: pref.InitPoint}, nil
}

type mpEvent struct {
	Action string `json:"action"`
	Data   struct {
		ID                string `json:"id"`
		Status            string `json:"status"`
		ExternalReference string `json:"external_reference"`
	} `json:"data"`
}

// VerifyWebhook checks the x-signature HMAC and decodes the notification.
func (m *MercadoPago) VerifyWebhook(payload []byte, signature string) (*payments.WebhookEvent, error) {
	mac := hmac.New(sha256.New, []byte(m.secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("mercadopago webhook: signature mismatch")
	}

	var ev mpEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("mercadopago webhook: decode: %w", err)
	}

	return &payments.WebhookEvent{
		TenantID:  ev.Data.ExternalReference,
		Confirmed: ev.Data.Status == "approved",
		Reference: ev.Data.ID,
	}, nil
}
