package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	cartapp "github.com/dmehra2102/storefront/internal/cart/application"
	cartmem "github.com/dmehra2102/storefront/internal/cart/infrastructure/memory"
	cartpg "github.com/dmehra2102/storefront/internal/cart/infrastructure/postgres"
	catalogapp "github.com/dmehra2102/storefront/internal/catalog/application"
	catalogmem "github.com/dmehra2102/storefront/internal/catalog/infrastructure/memory"
	catalogpg "github.com/dmehra2102/storefront/internal/catalog/infrastructure/postgres"
	"github.com/dmehra2102/storefront/internal/config"
	invapp "github.com/dmehra2102/storefront/internal/inventory/application"
	invpg "github.com/dmehra2102/storefront/internal/inventory/infrastructure/postgres"
	orderapp "github.com/dmehra2102/storefront/internal/order/application"
	ordermem "github.com/dmehra2102/storefront/internal/order/infrastructure/memory"
	orderpg "github.com/dmehra2102/storefront/internal/order/infrastructure/postgres"
	pgplatform "github.com/dmehra2102/storefront/internal/platform/postgres"
	tenantapp "github.com/dmehra2102/storefront/internal/tenant/application"
	tenantmem "github.com/dmehra2102/storefront/internal/tenant/infrastructure/memory"
	tenantpg "github.com/dmehra2102/storefront/internal/tenant/infrastructure/postgres"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

// stores is the storage backend chosen by configuration.
type stores struct {
	tenants  tenantapp.TenantRepository
	products catalogapp.ProductRepository
	carts    cartapp.CartRepository
	orders   orderapp.OrderRepository
	outbox   outbox.Store
	stock    invapp.AtomicStore
	pool     *pgxpool.Pool
}

func (s *stores) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		products := catalogmem.NewRepository()
		orders := ordermem.NewRepository()
		log.Warn("using in-memory storage; data is lost on restart")
		return &stores{
			tenants:  tenantmem.NewRepository(),
			products: products,
			carts:    cartmem.NewRepository(),
			orders:   orders,
			outbox:   orders,
			stock:    invapp.NewCASReserver(log, products, cfg.InventoryCASRetries),
		}, nil
	}

	pool, err := pgplatform.Open(ctx, pgplatform.Config{URL: cfg.PGURL})
	if err != nil {
		return nil, err
	}
	if err := pgplatform.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &stores{
		tenants:  tenantpg.NewRepository(log, pool),
		products: catalogpg.NewRepository(log, pool),
		carts:    cartpg.NewRepository(log, pool),
		orders:   orderpg.NewRepository(log, pool),
		outbox:   orderpg.NewOutboxStore(log, pool),
		stock:    invpg.NewRepository(log, pool),
		pool:     pool,
	}, nil
}
