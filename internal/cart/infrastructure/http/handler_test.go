package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/cart/application"
	"github.com/dmehra2102/storefront/internal/cart/infrastructure/memory"
	catalog "github.com/dmehra2102/storefront/internal/catalog/domain"
	catalogmem "github.com/dmehra2102/storefront/internal/catalog/infrastructure/memory"
	"github.com/dmehra2102/storefront/internal/pricing"
	"github.com/dmehra2102/storefront/pkg/httperr"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := catalogmem.NewRepository()
	p, err := catalog.NewProduct("p1", "t1", "SKU-1", "Mug", decimal.RequireFromString("10.00"), 3, time.Now())
	require.NoError(t, err)
	require.NoError(t, products.Create(context.Background(), p))

	svc := application.NewService(log, memory.NewRepository(), products, pricing.NewEngine(nil, nil))
	r := chi.NewRouter()
	r.Use(tenancy.Middleware)
	r.With(tenancy.RequireUser).Mount("/cart", NewHandler(log, svc).Routes())
	return r
}

type cartBody struct {
	ID    string `json:"id"`
	Total string `json:"total"`
	Items []struct {
		SKU      string `json:"sku"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func do(h http.Handler, method, target, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(tenancy.TenantHeader, "t1")
	if user != "" {
		req.Header.Set(tenancy.UserHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddAndGetCart(t *testing.T) {
	h := newServer(t)

	rec := do(h, http.MethodGet, "/cart", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var empty cartBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&empty))
	assert.Empty(t, empty.Items)
	assert.Equal(t, "0", empty.Total)

	rec = do(h, http.MethodPost, "/cart/items", "u1", `{"sku":"SKU-1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added cartBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&added))
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "20", added.Total)

	rec = do(h, http.MethodGet, "/cart", "u1", "")
	var got cartBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, added.ID, got.ID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestAddItemErrors(t *testing.T) {
	h := newServer(t)
	cases := []struct {
		body   string
		status int
		code   string
	}{
		{`{"sku":"SKU-1","quantity":0}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{`{"sku":"NOPE","quantity":1}`, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{`{"sku":"SKU-1","quantity":4}`, http.StatusConflict, "INSUFFICIENT_INVENTORY"},
		{`{`, http.StatusBadRequest, httperr.CodeBadRequest},
	}
	for _, tc := range cases {
		rec := do(h, http.MethodPost, "/cart/items", "u1", tc.body)
		require.Equal(t, tc.status, rec.Code, tc.body)
		var resp httperr.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, tc.code, resp.Code, tc.body)
	}
}

func TestUserRequired(t *testing.T) {
	rec := do(newServer(t), http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
