package application

import (
	"context"
	"errors"
	"log/slog"

	catalog "github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/inventory/domain"
)

const DefaultCASAttempts = 5

// CASReserver turns a VersionedStore into an AtomicStore with a bounded
// read-modify-write loop. Running out of attempts on a decrement reports
// insufficient stock rather than risking an oversell.
type CASReserver struct {
	log      *slog.Logger
	store    VersionedStore
	attempts int
}

func NewCASReserver(log *slog.Logger, store VersionedStore, attempts int) *CASReserver {
	if attempts < 1 {
		attempts = DefaultCASAttempts
	}
	return &CASReserver{log: log, store: store, attempts: attempts}
}

func (c *CASReserver) DecrementIfAvailable(ctx context.Context, productID string, quantity int) (bool, error) {
	for i := 0; i < c.attempts; i++ {
		inv, version, err := c.store.Snapshot(ctx, productID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if inv < quantity {
			return false, nil
		}
		ok, err := c.store.CompareAndSet(ctx, productID, version, inv-quantity)
		if errors.Is(err, catalog.ErrProductNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	c.log.WarnContext(ctx, "inventory cas exhausted, failing closed", "product_id", productID, "attempts", c.attempts)
	return false, nil
}

func (c *CASReserver) Increment(ctx context.Context, productID string, quantity int) error {
	for i := 0; i < c.attempts; i++ {
		inv, version, err := c.store.Snapshot(ctx, productID)
		if err != nil {
			return err
		}
		ok, err := c.store.CompareAndSet(ctx, productID, version, inv+quantity)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return domain.ErrContention
}
