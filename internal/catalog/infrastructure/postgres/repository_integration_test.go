//go:build integration

package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/platform/testenv"
)

func TestRepositoryAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(slog.New(slog.NewTextHandler(io.Discard, nil)), testenv.Pool(t))
	now := time.Now()

	for i, sku := range []string{"MUG-RED", "MUG-BLUE", "TEAPOT"} {
		p, err := domain.NewProduct(sku, "t1", sku, sku, decimal.RequireFromString("9.99").Add(decimal.NewFromInt(int64(i))), i, now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, p))
	}

	dup, _ := domain.NewProduct("other", "t1", "TEAPOT", "x", decimal.Zero, 0, now)
	assert.True(t, errors.Is(repo.Create(ctx, dup), domain.ErrProductAlreadyExists))

	got, err := repo.FindBySKU(ctx, "t1", "MUG-BLUE")
	require.NoError(t, err)
	assert.Equal(t, "10.99", got.BasePrice.StringFixed(2))

	_, err = repo.FindBySKU(ctx, "t2", "MUG-BLUE")
	assert.True(t, errors.Is(err, domain.ErrProductNotFound))

	yes := true
	f, err := domain.Filter{SKU: "mug", InStock: &yes, SortBy: domain.SortByPrice, Desc: true}.Normalize()
	require.NoError(t, err)
	page, err := repo.List(ctx, "t1", f)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "MUG-BLUE", page.Items[0].SKU)
}
