package application

import (
	"context"

	"github.com/dmehra2102/storefront/internal/tenant/domain"
)

type TenantRepository interface {
	// Create fails with domain.ErrTenantAlreadyExists when the name
	// (case-insensitive) or slug is taken.
	Create(ctx context.Context, t domain.Tenant) error
	List(ctx context.Context) ([]domain.Tenant, error)
}
