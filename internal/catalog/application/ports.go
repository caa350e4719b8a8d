package application

import (
	"context"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
)

type ProductRepository interface {
	// Create fails with domain.ErrProductAlreadyExists when the tenant
	// already has the SKU.
	Create(ctx context.Context, p domain.Product) error
	FindBySKU(ctx context.Context, tenantID, sku string) (domain.Product, error)
	List(ctx context.Context, tenantID string, f domain.Filter) (domain.Page, error)
}
