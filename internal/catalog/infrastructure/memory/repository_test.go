package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
)

func seed(t *testing.T, r *Repository, tenantID, sku string, inv int) domain.Product {
	t.Helper()
	p, err := domain.NewProduct(tenantID+"/"+sku, tenantID, sku, "Item "+sku, decimal.NewFromInt(10), inv, time.Now())
	require.NoError(t, err)
	require.NoError(t, r.Create(context.Background(), p))
	return p
}

func TestCreateIsTenantScoped(t *testing.T) {
	r := NewRepository()
	seed(t, r, "t1", "SKU-1", 1)
	seed(t, r, "t2", "SKU-1", 1)

	p, _ := domain.NewProduct("dup", "t1", "SKU-1", "x", decimal.Zero, 0, time.Now())
	assert.True(t, errors.Is(r.Create(context.Background(), p), domain.ErrProductAlreadyExists))

	_, err := r.FindBySKU(context.Background(), "t3", "SKU-1")
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))
}

func TestListPaginates(t *testing.T) {
	r := NewRepository()
	for i := 0; i < 5; i++ {
		seed(t, r, "t1", fmt.Sprintf("SKU-%d", i), i)
	}
	seed(t, r, "t2", "SKU-X", 1)

	f, err := domain.Filter{SortBy: domain.SortBySKU, Limit: 2, Offset: 3}.Normalize()
	require.NoError(t, err)
	page, err := r.List(context.Background(), "t1", f)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "SKU-3", page.Items[0].SKU)
	assert.Equal(t, "SKU-4", page.Items[1].SKU)

	f.Offset = 10
	page, err = r.List(context.Background(), "t1", f)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestCompareAndSet(t *testing.T) {
	r := NewRepository()
	p := seed(t, r, "t1", "SKU-1", 5)
	ctx := context.Background()

	inv, ver, err := r.Snapshot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, inv)

	ok, err := r.CompareAndSet(ctx, p.ID, ver, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.CompareAndSet(ctx, p.ID, ver, 1)
	require.NoError(t, err)
	assert.False(t, ok, "stale version must lose")

	got, err := r.FindBySKU(ctx, "t1", "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Inventory)
	assert.Equal(t, ver+1, got.Version)
}
