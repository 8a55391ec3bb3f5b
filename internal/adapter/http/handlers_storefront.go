package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/catalog"
	"github.com/vitrinehq/vitrine/internal/domain/quote"
)

// StorefrontHome handles GET /loja/{slug}
func (h *Handlers) StorefrontHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.Storefront.Home(r.Context(), urlParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// StorefrontProducts handles GET /loja/{slug}/products
func (h *Handlers) StorefrontProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Storefront.ListProducts(r.Context(), urlParam(r, "slug"), productFilterFromQuery(r))
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// StorefrontCategories handles GET /loja/{slug}/categories
func (h *Handlers) StorefrontCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Storefront.Categories(r.Context(), urlParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// StorefrontBestSellers handles GET /loja/{slug}/best-sellers
func (h *Handlers) StorefrontBestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.Storefront.BestSellers(r.Context(), urlParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// StorefrontProduct handles GET /loja/{slug}/products/{id}
func (h *Handlers) StorefrontProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Storefront.Product(r.Context(), urlParam(r, "slug"), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// StorefrontCreateQuote handles POST /loja/{slug}/quotes
//
// The tenant comes from the slug; shoppers are anonymous.
func (h *Handlers) StorefrontCreateQuote(w http.ResponseWriter, r *http.Request) {
	t, err := h.Storefront.ResolveStore(r.Context(), urlParam(r, "slug"))
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}

	req, ok := readJSON[quote.CreateRequest](w, r)
	if !ok {
		return
	}

	q, err := h.Quotes.Create(r.Context(), t.ID, &req)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusCreated, q)
}
