package application

import (
	"context"

	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

type OrderRepository interface {
	// Create stores the order and its outbox record atomically. A taken
	// (tenant, idempotency key) yields domain.ErrOrderAlreadyExists.
	Create(ctx context.Context, o domain.Order, event outbox.Record) error
	Get(ctx context.Context, tenantID, id string) (domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, tenantID, key string) (domain.Order, error)
}
