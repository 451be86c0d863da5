package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ProductsAPI/internal/catalog"
	"ProductsAPI/pkg/kit"
)

const testKey = "test-key"

type env struct {
	ts    *httptest.Server
	store *catalog.MemStore
}

func newEnv(t *testing.T, deps catalog.HTTPDeps, seed ...catalog.Product) env {
	t.Helper()

	if seed == nil {
		seed = catalog.SeedProducts()
	}
	store := catalog.NewMemStore(seed...)

	deps.Log = zap.NewNop()
	deps.Service = "products"
	h := catalog.NewHandler(&catalog.Server{Store: store}, deps)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return env{ts: ts, store: store}
}

func newAPI(t *testing.T) env {
	return newEnv(t, catalog.HTTPDeps{APIKey: testKey})
}

func (e env) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (e env) api(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{"x-api-key": testKey})
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body=%s", raw)
	return v
}

func size(t *testing.T, e env) int {
	t.Helper()
	page, err := e.store.List(context.Background(), catalog.ListQuery{Page: 1, Limit: 1000})
	require.NoError(t, err)
	return page.TotalProducts
}

func TestRoot_IsOpen(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World from Products API!", string(raw))

	resp, _ = e.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.do(t, http.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIKey_MissingOrWrong(t *testing.T) {
	e := newAPI(t)
	before := size(t, e)

	cases := []struct {
		name    string
		headers map[string]string
	}{
		{"missing", nil},
		{"wrong", map[string]string{"x-api-key": "nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := e.do(t, http.MethodPost, "/api/products", map[string]any{
				"name": "a", "description": "b", "price": 1, "category": "c",
			}, tc.headers)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			got := decode[kit.ErrorResponse](t, raw)
			assert.False(t, got.Success)
			assert.Equal(t, "Unauthorized: Invalid or missing API Key.", got.Message)
			assert.Nil(t, got.Errors)
		})
	}

	assert.Equal(t, before, size(t, e), "rejected requests must not mutate the store")
}

func TestAPIKey_NotConfigured(t *testing.T) {
	e := newEnv(t, catalog.HTTPDeps{})

	resp, raw := e.do(t, http.MethodGet, "/api/products", nil, map[string]string{"x-api-key": "anything"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server configuration error: API_KEY not set.", decode[kit.ErrorResponse](t, raw).Message)

	resp, _ = e.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProducts_CreateThenGetRoundTrip(t *testing.T) {
	e := newAPI(t)
	before := size(t, e)

	resp, raw := e.api(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Desk Lamp", "description": "LED lamp", "price": 29.5, "category": "Home",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body=%s", raw)

	created := decode[catalog.Product](t, raw)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.InStock)
	assert.Equal(t, before+1, size(t, e))

	resp, raw = e.api(t, http.MethodGet, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[catalog.Product](t, raw))
}

func TestProducts_CreateValidationReportsAll(t *testing.T) {
	e := newAPI(t)
	before := size(t, e)

	resp, raw := e.api(t, http.MethodPost, "/api/products", map[string]any{
		"description": "no name", "price": 0, "category": "x",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	got := decode[kit.ErrorResponse](t, raw)
	assert.False(t, got.Success)
	assert.Equal(t, "Validation failed", got.Message)
	assert.Equal(t, []string{
		"Name is required and must be a non-empty string.",
		"Price is required and must be a positive number.",
	}, got.Errors)
	assert.Equal(t, before, size(t, e))
}

func TestProducts_MalformedBody(t *testing.T) {
	e := newAPI(t)

	for _, b := range []string{`{"name":`, `[1,2]`, `null`} {
		resp, raw := e.api(t, http.MethodPost, "/api/products", b)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %q", b)
		assert.Equal(t, "Request body must be a valid JSON object.", decode[kit.ErrorResponse](t, raw).Message)
	}
}

func TestProducts_Update(t *testing.T) {
	e := newAPI(t)
	orig := catalog.SeedProducts()[0]
	page, err := e.store.List(context.Background(), catalog.ListQuery{Page: 1, Limit: 1})
	require.NoError(t, err)
	id := page.Data[0].ID

	resp, raw := e.api(t, http.MethodPut, "/api/products/"+id, map[string]any{"price": 1299.99, "id": "other"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)

	got := decode[catalog.Product](t, raw)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 1299.99, got.Price)
	assert.Equal(t, orig.Name, got.Name)
	assert.Equal(t, orig.Description, got.Description)
	assert.Equal(t, orig.Category, got.Category)
	assert.Equal(t, orig.InStock, got.InStock)
}

func TestProducts_UpdateErrors(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.api(t, http.MethodPut, "/api/products/missing", map[string]any{"name": "x"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product with ID missing not found.", decode[kit.ErrorResponse](t, raw).Message)

	resp, raw = e.api(t, http.MethodPut, "/api/products/missing", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"Request body cannot be empty for product update."}, decode[kit.ErrorResponse](t, raw).Errors)

	resp, raw = e.api(t, http.MethodPut, "/api/products/missing", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"Request body cannot be empty for product update."}, decode[kit.ErrorResponse](t, raw).Errors)
}

func TestProducts_Delete(t *testing.T) {
	e := newAPI(t)
	page, err := e.store.List(context.Background(), catalog.ListQuery{Page: 1, Limit: 1})
	require.NoError(t, err)
	id := page.Data[0].ID

	resp, raw := e.api(t, http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, raw)

	resp, _ = e.api(t, http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = e.api(t, http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_ListPagination(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.api(t, http.MethodGet, "/api/products?limit=2&page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[catalog.Page](t, raw)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.Limit)
	assert.Equal(t, 7, got.TotalProducts)
	assert.Equal(t, 4, got.TotalPages)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "Mechanical Keyboard RGB", got.Data[0].Name)
	assert.Equal(t, "USB-C Hub", got.Data[1].Name)
}

func TestProducts_ListDefaultsAndFilter(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.api(t, http.MethodGet, "/api/products?page=2abc&limit=x&category=ELECTRONICS", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[catalog.Page](t, raw)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 2, got.TotalProducts)
	for _, p := range got.Data {
		assert.Equal(t, "Electronics", p.Category)
	}
}

func TestProducts_ListHugeLimitOrPage(t *testing.T) {
	e := newAPI(t)

	for _, q := range []string{
		"?page=2&limit=9223372036854775807",
		"?page=9223372036854775807&limit=2",
	} {
		resp, raw := e.api(t, http.MethodGet, "/api/products"+q, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, "%s body=%s", q, raw)

		got := decode[catalog.Page](t, raw)
		assert.Equal(t, 7, got.TotalProducts, q)
		assert.Empty(t, got.Data, q)
	}
}

func TestProducts_ListCategoryIsNotTrimmed(t *testing.T) {
	e := newAPI(t)

	_, raw := e.api(t, http.MethodGet, "/api/products?category=%20Audio", nil)
	assert.Equal(t, 0, decode[catalog.Page](t, raw).TotalProducts)

	_, raw = e.api(t, http.MethodGet, "/api/products?category=audio", nil)
	assert.Equal(t, 1, decode[catalog.Page](t, raw).TotalProducts)
}

func TestProducts_ListRejectsNonPositive(t *testing.T) {
	e := newAPI(t)

	for _, q := range []string{"?page=0", "?limit=-1"} {
		resp, raw := e.api(t, http.MethodGet, "/api/products"+q, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
		assert.Equal(t, "Page and limit must be positive integers.", decode[kit.ErrorResponse](t, raw).Message)
	}
}

func TestProducts_Search(t *testing.T) {
	e := newAPI(t)

	_, lower := e.api(t, http.MethodGet, "/api/products/search?q=mouse", nil)
	_, upper := e.api(t, http.MethodGet, "/api/products/search?q=MOUSE", nil)

	a := decode[[]catalog.Product](t, lower)
	b := decode[[]catalog.Product](t, upper)
	require.Len(t, a, 1)
	assert.Equal(t, a, b)

	resp, raw := e.api(t, http.MethodGet, "/api/products/search", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Search query (q) is required and must be a non-empty string.", decode[kit.ErrorResponse](t, raw).Message)

	_, raw = e.api(t, http.MethodGet, "/api/products/search?q=zzz", nil)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestProducts_Stats(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.api(t, http.MethodGet, "/api/products/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[catalog.Stats](t, raw)
	assert.Equal(t, 7, got.TotalProducts)
	sum := 0
	for _, n := range got.CountByCategory {
		sum += n
	}
	assert.Equal(t, 7, sum)
}

func TestRoutes_FixedSegmentsBeatIDWildcard(t *testing.T) {
	seed := []catalog.Product{
		{ID: "search", Name: "Decoy search", Description: "d", Price: 1, Category: "c", InStock: true},
		{ID: "stats", Name: "Decoy stats", Description: "d", Price: 1, Category: "c", InStock: true},
	}
	e := newEnv(t, catalog.HTTPDeps{APIKey: testKey}, seed...)

	resp, raw := e.api(t, http.MethodGet, "/api/products/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[catalog.Stats](t, raw).TotalProducts)

	resp, raw = e.api(t, http.MethodGet, "/api/products/search?q=decoy", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]catalog.Product](t, raw), 2)

	// Other methods still reach the wildcard.
	resp, _ = e.api(t, http.MethodDelete, "/api/products/stats", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRoutes_UnknownRouteUsesEnvelope(t *testing.T) {
	e := newAPI(t)

	resp, raw := e.api(t, http.MethodGet, "/api/nothing-here", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, decode[kit.ErrorResponse](t, raw).Success)
}

func TestMetrics_TokenGuarded(t *testing.T) {
	e := newEnv(t, catalog.HTTPDeps{
		APIKey:         testKey,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})

	e.api(t, http.MethodGet, "/api/products", nil)

	resp, _ := e.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := e.do(t, http.MethodGet, "/metrics", nil, map[string]string{"Authorization": "Bearer scrape"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "products_catalog_size 7")
	assert.Contains(t, string(raw), `http_requests_total{method="GET"`)
}

func TestRateLimit_AppliesToAPI(t *testing.T) {
	e := newEnv(t, catalog.HTTPDeps{APIKey: testKey, RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		resp, _ := e.api(t, http.MethodGet, "/api/products/stats", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, raw := e.api(t, http.MethodGet, "/api/products/stats", nil)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests.", decode[kit.ErrorResponse](t, raw).Message)

	resp, _ = e.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit_CountsRejectedKeys(t *testing.T) {
	e := newEnv(t, catalog.HTTPDeps{APIKey: testKey, RateLimit: 2, RateWindow: time.Minute})

	for i := 0; i < 2; i++ {
		resp, _ := e.do(t, http.MethodGet, "/api/products", nil, map[string]string{"x-api-key": "guess"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp, _ := e.do(t, http.MethodGet, "/api/products", nil, map[string]string{"x-api-key": "guess"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
