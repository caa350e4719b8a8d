package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithfKeepsIdentity(t *testing.T) {
	base := New("PRODUCT_NOT_FOUND", http.StatusNotFound, "product not found")

	err := fmt.Errorf("lookup: %w", base.Withf("product not found: %s", "SKU-1"))

	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "lookup: product not found: SKU-1")

	var coded Coded
	require.True(t, errors.As(err, &coded))
	assert.Equal(t, "PRODUCT_NOT_FOUND", coded.Code())
	assert.Equal(t, http.StatusNotFound, coded.HTTPStatus())
}

func TestDistinctSentinelsDoNotMatch(t *testing.T) {
	a := New("A", http.StatusBadRequest, "a")
	b := New("B", http.StatusBadRequest, "b")

	assert.NotErrorIs(t, a.Withf("a!"), b)
}
