//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/storefront/internal/platform/testenv"
)

func TestConcurrentReserveAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pool := testenv.Pool(t)
	repo := NewRepository(slog.New(slog.NewTextHandler(io.Discard, nil)), pool)

	_, err := pool.Exec(ctx, `INSERT INTO products (id, tenant_id, sku, name, base_price, inventory, version, created_at)
		VALUES ('p1','t1','SKU-1','Mug',10,5,0,$1)`, time.Now())
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DecrementIfAvailable(ctx, "p1", 3)
			assert.NoError(t, err)
			if ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	var inv int
	var version int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT inventory, version FROM products WHERE id='p1'`).Scan(&inv, &version))
	assert.Equal(t, 2, inv)
	assert.Equal(t, int64(1), version)

	require.NoError(t, repo.Increment(ctx, "p1", 3))
	require.NoError(t, pool.QueryRow(ctx, `SELECT inventory FROM products WHERE id='p1'`).Scan(&inv))
	assert.Equal(t, 5, inv)

	ok, err := repo.DecrementIfAvailable(ctx, "missing", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
