package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/quote"
)

// ListQuotes handles GET /api/v1/quotes
func (h *Handlers) ListQuotes(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	quotes, err := h.Quotes.List(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "quotes not found")
		return
	}
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	writeJSON(w, http.StatusOK, quotes)
}

// GetQuote handles GET /api/v1/quotes/{id}
func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	q, err := h.Quotes.Get(r.Context(), p.TenantID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "quote not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// UpdateQuoteStatus handles PUT /api/v1/quotes/{id}/status
func (h *Handlers) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[struct {
		Status quote.Status `json:"status"`
	}](w, r)
	if !ok {
		return
	}

	q, err := h.Quotes.UpdateStatus(r.Context(), p.TenantID, urlParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, err, "quote not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// DeleteQuote handles DELETE /api/v1/quotes/{id}
func (h *Handlers) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	if err := h.Quotes.Delete(r.Context(), p.TenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "quote not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
