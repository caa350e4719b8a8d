package tenancy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddlewareStoresIdentity(t *testing.T) {
	var got Identity
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(TenantHeader, "acme")
	req.Header.Set(UserHeader, "u-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, Identity{TenantID: "acme", UserID: "u-1"}, got)
}

func TestMiddlewareRejectsMissingTenant(t *testing.T) {
	called := false
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_REQUIRED")
}

func TestRequireUser(t *testing.T) {
	h := Middleware(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(TenantHeader, "acme")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set(UserHeader, "u-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequire(t *testing.T) {
	assert.ErrorIs(t, Require("", "u-1"), ErrTenantContextMissing)
	assert.ErrorIs(t, Require("acme", ""), ErrTenantContextMissing)
	assert.NoError(t, Require("acme", "u-1"))
}
