//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// TestMerchantJourney walks the full lifecycle over a real database:
// register, provision a store on the free plan, publish a product, then
// an anonymous shopper browses the storefront and requests a quote.
func TestMerchantJourney(t *testing.T) {
	cleanDB(testPool)

	// 1. Register
	resp := postJSON(t, "", "/api/v1/auth/register", map[string]any{
		"email": "ana@example.com", "name": "Ana", "password": "password123",
	})
	requireStatus(t, resp, http.StatusCreated, "register")

	// 2. Login
	resp = postJSON(t, "", "/api/v1/auth/login", map[string]any{
		"email": "ana@example.com", "password": "password123",
	})
	requireStatus(t, resp, http.StatusOK, "login")
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &login)
	if login.AccessToken == "" {
		t.Fatal("expected access token")
	}

	// 3. Provision a store
	resp = postJSON(t, login.AccessToken, "/api/v1/tenants", map[string]any{
		"name": "Flores da Ana", "slug": "flores-da-ana", "plan_slug": "free",
	})
	requireStatus(t, resp, http.StatusCreated, "provision")

	// Membership claims land in the token at login.
	resp = postJSON(t, "", "/api/v1/auth/login", map[string]any{
		"email": "ana@example.com", "password": "password123",
	})
	requireStatus(t, resp, http.StatusOK, "re-login")
	decode(t, resp, &login)

	// 4. Publish a product
	resp = postJSON(t, login.AccessToken, "/api/v1/products", map[string]any{
		"name": "Buquê de Rosas", "price_cents": 12990,
	})
	requireStatus(t, resp, http.StatusCreated, "create product")
	var product struct {
		ID string `json:"id"`
	}
	decode(t, resp, &product)

	// 5. Anonymous shopper loads the storefront
	resp = get(t, "/loja/flores-da-ana")
	requireStatus(t, resp, http.StatusOK, "storefront home")
	var home struct {
		Store struct {
			Name string `json:"name"`
		} `json:"store"`
		TopProducts []struct {
			ID string `json:"id"`
		} `json:"top_products"`
	}
	decode(t, resp, &home)
	if home.Store.Name != "Flores da Ana" {
		t.Fatalf("store name = %q", home.Store.Name)
	}
	if len(home.TopProducts) != 1 || home.TopProducts[0].ID != product.ID {
		t.Fatalf("top products = %+v", home.TopProducts)
	}

	// 6. Shopper requests a quote
	resp = postJSON(t, "", "/loja/flores-da-ana/quotes", map[string]any{
		"customer_name":  "Maria",
		"customer_email": "maria@example.com",
		"items":          []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	requireStatus(t, resp, http.StatusCreated, "create quote")

	// 7. Merchant sees the quote with the snapshotted price
	resp = get(t, "/api/v1/quotes", withToken(login.AccessToken))
	requireStatus(t, resp, http.StatusOK, "list quotes")
	var quotes []struct {
		CustomerName string `json:"customer_name"`
		Items        []struct {
			UnitPriceCents int64 `json:"unit_price_cents"`
			Quantity       int   `json:"quantity"`
		} `json:"items"`
	}
	decode(t, resp, &quotes)
	if len(quotes) != 1 {
		t.Fatalf("expected 1 quote, got %d", len(quotes))
	}
	if quotes[0].CustomerName != "Maria" {
		t.Errorf("customer = %q", quotes[0].CustomerName)
	}
	if len(quotes[0].Items) != 1 || quotes[0].Items[0].UnitPriceCents != 12990 {
		t.Errorf("items = %+v", quotes[0].Items)
	}
}

// --- Helpers ---

func postJSON(t *testing.T, token, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, testServer.URL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func get(t *testing.T, path string, opts ...func(*http.Request)) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, testServer.URL+path, http.NoBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for _, opt := range opts {
		opt(req)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func withToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func requireStatus(t *testing.T, resp *http.Response, want int, step string) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		t.Fatalf("%s: expected %d, got %d: %s", step, want, resp.StatusCode, body)
	}
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
