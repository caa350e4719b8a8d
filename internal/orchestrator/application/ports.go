package application

import (
	"context"

	cart "github.com/dmehra2102/storefront/internal/cart/domain"
	order "github.com/dmehra2102/storefront/internal/order/domain"
)

type Orders interface {
	FindByIdempotencyKey(ctx context.Context, tenantID, key string) (order.Order, bool, error)
	// Create returns order.ErrOrderAlreadyExists when the key was taken.
	Create(ctx context.Context, o order.Order) error
}

type Carts interface {
	ActiveCart(ctx context.Context, tenantID, userID string) (*cart.Cart, bool, error)
	ClearCart(ctx context.Context, tenantID, userID, cartID string) error
}

type Inventory interface {
	Reserve(ctx context.Context, productID string, quantity int) (bool, error)
	Release(ctx context.Context, productID string, quantity int) error
}

// InFlightGuard marks a (tenant, key) as being placed right now.
type InFlightGuard interface {
	Acquire(ctx context.Context, tenantID, key string) (release func(context.Context) error, acquired bool, err error)
}
