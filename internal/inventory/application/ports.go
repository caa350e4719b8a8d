package application

import "context"

// AtomicStore changes stock in a single conditional step. The decrement
// must never take inventory below zero.
type AtomicStore interface {
	// DecrementIfAvailable reports false, with no error, when stock is
	// short or the product is unknown.
	DecrementIfAvailable(ctx context.Context, productID string, quantity int) (bool, error)
	Increment(ctx context.Context, productID string, quantity int) error
}

// VersionedStore is for backends without a conditional update. Every
// successful CompareAndSet bumps the version.
type VersionedStore interface {
	Snapshot(ctx context.Context, productID string) (inventory int, version int64, err error)
	CompareAndSet(ctx context.Context, productID string, expectedVersion int64, inventory int) (bool, error)
}
