package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/internal/cart/domain"
	"github.com/dmehra2102/storefront/internal/pricing"
)

type CartRepository interface {
	// FindActive returns domain.ErrCartNotFound when the user has no
	// active cart.
	FindActive(ctx context.Context, tenantID, userID string) (*domain.Cart, error)
	// Save inserts a cart with Version 0 and otherwise updates it only if
	// the stored version still matches. On success c.Version is advanced.
	// A lost race returns domain.ErrCartConflict.
	Save(ctx context.Context, c *domain.Cart) error
	// Retire deactivates the cart regardless of its version. Retiring an
	// already retired cart is a no-op.
	Retire(ctx context.Context, tenantID, cartID string, now time.Time) error
}

type ProductCatalog interface {
	FindBySKU(ctx context.Context, tenantID, sku string) (catalog.Product, error)
}

type PriceEngine interface {
	domain.Discounter
	CalculatePrice(pricing.Context) decimal.Decimal
}
