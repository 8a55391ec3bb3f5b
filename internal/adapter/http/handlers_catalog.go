package http

import (
	"net/http"
	"strconv"

	"github.com/vitrinehq/vitrine/internal/domain/catalog"
)

func productFilterFromQuery(r *http.Request) catalog.ProductFilter {
	q := r.URL.Query()
	f := catalog.ProductFilter{
		CategoryID: q.Get("category_id"),
		Query:      q.Get("q"),
		Sort:       catalog.ProductSort(q.Get("sort")),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		f.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		f.Offset = v
	}
	return f
}

// CreateProduct handles POST /api/v1/products
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreateProductRequest](w, r)
	if !ok {
		return
	}

	product, err := h.Catalog.CreateProduct(r.Context(), p.TenantID, &req)
	if err != nil {
		writeDomainError(w, err, "product not found")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// ListProducts handles GET /api/v1/products
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	products, err := h.Catalog.ListProducts(r.Context(), p.TenantID, productFilterFromQuery(r))
	if err != nil {
		writeDomainError(w, err, "products not found")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	product, err := h.Catalog.GetProduct(r.Context(), p.TenantID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdateProductRequest](w, r)
	if !ok {
		return
	}

	product, err := h.Catalog.UpdateProduct(r.Context(), p.TenantID, urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeleteProduct(r.Context(), p.TenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestProductCopy handles POST /api/v1/products/suggest-copy
func (h *Handlers) SuggestProductCopy(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalTenant(w, r); !ok {
		return
	}

	req, ok := readJSON[struct {
		Name  string `json:"name"`
		Hints string `json:"hints"`
	}](w, r)
	if !ok {
		return
	}

	s, err := h.Catalog.SuggestCopy(r.Context(), req.Name, req.Hints)
	if err != nil {
		writeDomainError(w, err, "suggestion unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// --- Categories ---

// CreateCategory handles POST /api/v1/categories
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreateCategoryRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Catalog.CreateCategory(r.Context(), p.TenantID, &req)
	if err != nil {
		writeDomainError(w, err, "category not found")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	categories, err := h.Catalog.ListCategories(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "categories not found")
		return
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdateCategoryRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Catalog.UpdateCategory(r.Context(), p.TenantID, urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeleteCategory(r.Context(), p.TenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Banners ---

// CreateBanner handles POST /api/v1/banners
func (h *Handlers) CreateBanner(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.CreateBannerRequest](w, r)
	if !ok {
		return
	}

	b, err := h.Catalog.CreateBanner(r.Context(), p.TenantID, &req)
	if err != nil {
		writeDomainError(w, err, "banner not found")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// ListBanners handles GET /api/v1/banners
func (h *Handlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	banners, err := h.Catalog.ListBanners(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "banners not found")
		return
	}
	if banners == nil {
		banners = []catalog.Banner{}
	}
	writeJSON(w, http.StatusOK, banners)
}

// UpdateBanner handles PUT /api/v1/banners/{id}
func (h *Handlers) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	req, ok := readJSON[catalog.UpdateBannerRequest](w, r)
	if !ok {
		return
	}

	b, err := h.Catalog.UpdateBanner(r.Context(), p.TenantID, urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, err, "banner not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBanner handles DELETE /api/v1/banners/{id}
func (h *Handlers) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeleteBanner(r.Context(), p.TenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "banner not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
