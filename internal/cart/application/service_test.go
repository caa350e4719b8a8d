package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/cart/domain"
	"github.com/dmehra2102/storefront/internal/cart/infrastructure/memory"
	catalog "github.com/dmehra2102/storefront/internal/catalog/domain"
	catalogmem "github.com/dmehra2102/storefront/internal/catalog/infrastructure/memory"
	"github.com/dmehra2102/storefront/internal/pricing"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newCatalog(t *testing.T) *catalogmem.Repository {
	t.Helper()
	repo := catalogmem.NewRepository()
	for _, p := range []struct {
		sku   string
		price string
		inv   int
	}{
		{"SKU-A", "100.00", 50},
		{"SKU-B", "20.00", 2},
	} {
		prod, err := catalog.NewProduct("id-"+p.sku, "t1", p.sku, "Product "+p.sku, decimal.RequireFromString(p.price), p.inv, time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Create(context.Background(), prod))
	}
	return repo
}

func newService(t *testing.T, repo CartRepository) *Service {
	return NewService(discard, repo, newCatalog(t), pricing.NewEngine(pricing.DefaultItemRules(), pricing.DefaultCartRules()))
}

func TestAddToCartPricesAndReplaces(t *testing.T) {
	svc := newService(t, memory.NewRepository())
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "t1", "u1", "SKU-A", 2)
	require.NoError(t, err)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "85.00", items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "100.00", items[0].BaseUnitPrice.StringFixed(2))
	assert.Equal(t, "170.00", c.Subtotal.StringFixed(2))
	assert.Equal(t, "17.00", c.DiscountAmount.StringFixed(2))
	assert.Equal(t, "153.00", c.Total.StringFixed(2))

	again, err := svc.AddToCart(ctx, "t1", "u1", "SKU-A", 1)
	require.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)
	require.Len(t, again.Items(), 1)
	assert.Equal(t, 1, again.Items()[0].Quantity)
	assert.Equal(t, "85.00", again.Total.StringFixed(2))

	got, err := svc.GetCart(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(again.Total))
}

func TestAddToCartErrors(t *testing.T) {
	svc := newService(t, memory.NewRepository())
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "", "u1", "SKU-A", 1)
	assert.True(t, errors.Is(err, tenancy.ErrTenantContextMissing))

	_, err = svc.AddToCart(ctx, "t1", "u1", "SKU-A", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = svc.AddToCart(ctx, "t1", "u1", "NOPE", 1)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))

	_, err = svc.AddToCart(ctx, "t2", "u1", "SKU-A", 1)
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound), "products are tenant scoped")

	_, err = svc.AddToCart(ctx, "t1", "u1", "SKU-B", 3)
	var inv *domain.InsufficientInventoryError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "SKU-B", inv.SKU)
	assert.Equal(t, 3, inv.Requested)
	assert.Equal(t, 2, inv.Available)
}

func TestGetCartWithoutCartIsEmpty(t *testing.T) {
	svc := newService(t, memory.NewRepository())

	c, err := svc.GetCart(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Total.IsZero())
	assert.Empty(t, c.ID)

	_, ok, err := svc.ActiveCart(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.False(t, ok, "reading must not create a cart")
}

func TestClearCartStartsFresh(t *testing.T) {
	svc := newService(t, memory.NewRepository())
	ctx := context.Background()

	c, err := svc.AddToCart(ctx, "t1", "u1", "SKU-A", 1)
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, "t1", "u1", c.ID))
	require.NoError(t, svc.ClearCart(ctx, "t1", "u1", c.ID))

	got, err := svc.GetCart(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	next, err := svc.AddToCart(ctx, "t1", "u1", "SKU-B", 1)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, next.ID)
	assert.Len(t, next.Items(), 1)
}

// conflictingRepo fails the first n saves with a conflict.
type conflictingRepo struct {
	*memory.Repository
	mu        sync.Mutex
	conflicts int
	saves     int
}

func (r *conflictingRepo) Save(ctx context.Context, c *domain.Cart) error {
	r.mu.Lock()
	r.saves++
	fail := r.saves <= r.conflicts
	r.mu.Unlock()
	if fail {
		return domain.ErrCartConflict
	}
	return r.Repository.Save(ctx, c)
}

func TestAddToCartRetriesConflicts(t *testing.T) {
	repo := &conflictingRepo{Repository: memory.NewRepository(), conflicts: 2}
	svc := newService(t, repo)

	c, err := svc.AddToCart(context.Background(), "t1", "u1", "SKU-A", 1)
	require.NoError(t, err)
	assert.Len(t, c.Items(), 1)
	assert.Equal(t, 3, repo.saves)

	repo = &conflictingRepo{Repository: memory.NewRepository(), conflicts: 3}
	svc = newService(t, repo)
	_, err = svc.AddToCart(context.Background(), "t1", "u1", "SKU-A", 1)
	assert.True(t, errors.Is(err, domain.ErrCartConflict))
}

func TestConcurrentAddsKeepOneActiveCart(t *testing.T) {
	repo := memory.NewRepository()
	svc := NewService(discard, repo, newCatalog(t), pricing.NewEngine(nil, nil), WithSaveAttempts(20))
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, sku := range []string{"SKU-A", "SKU-B"} {
		wg.Add(1)
		go func(sku string) {
			defer wg.Done()
			_, err := svc.AddToCart(ctx, "t1", "u1", sku, 1)
			assert.NoError(t, err)
		}(sku)
	}
	wg.Wait()

	c, err := svc.GetCart(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, "120.00", c.Total.StringFixed(2))
}
