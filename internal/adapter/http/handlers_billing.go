package http

import (
	"io"
	"net/http"
)

// CreateCheckout handles POST /api/v1/billing/checkout
func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[struct {
		Gateway  string `json:"gateway"`
		PlanSlug string `json:"plan_slug"`
	}](w, r)
	if !ok {
		return
	}

	session, err := h.Billing.Checkout(r.Context(), p.TenantID, p.Email, req.Gateway, req.PlanSlug)
	if err != nil {
		writeDomainError(w, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// BillingWebhook handles POST /webhooks/billing/{gateway}
//
// Identity comes from the gateway's signature, never from a Bearer token.
func (h *Handlers) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	gateway := urlParam(r, "gateway")
	signature := r.Header.Get("Stripe-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Signature")
	}

	if err := h.Billing.HandleWebhook(r.Context(), gateway, payload, signature); err != nil {
		// Gateways retry on non-2xx; reject unverifiable calls outright.
		writeDomainError(w, err, "unknown webhook target")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
