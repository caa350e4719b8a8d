package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestWriteCodedError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	errEmpty := apperr.New("EMPTY_CART", http.StatusBadRequest, "cart is empty")

	Write(rec, req, slog.New(slog.NewTextHandler(io.Discard, nil)), fmt.Errorf("place: %w", errEmpty))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "EMPTY_CART", body.Code)
	assert.Equal(t, "place: cart is empty", body.Message)
	assert.NotZero(t, body.Timestamp)
}

func TestWriteUnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)

	Write(rec, req, slog.New(slog.NewTextHandler(io.Discard, nil)), errors.New("dial tcp 10.0.0.3:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, CodeInternal, body.Code)
	assert.NotContains(t, body.Message, "10.0.0.3")
}

func TestWriteCodedServerErrorHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	missing := apperr.New("TENANT_CONTEXT_MISSING", http.StatusInternalServerError, "tenant id missing from call")

	Write(rec, req, slog.New(slog.NewTextHandler(io.Discard, nil)), missing)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "TENANT_CONTEXT_MISSING", body.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Message)
}
