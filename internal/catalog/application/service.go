package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

type Service struct {
	log  *slog.Logger
	repo ProductRepository
	now  func() time.Time
}

func NewService(log *slog.Logger, repo ProductRepository) *Service {
	return &Service{log: log, repo: repo, now: time.Now}
}

type CreateProduct struct {
	SKU       string
	Name      string
	BasePrice decimal.Decimal
	Inventory int
}

func (s *Service) Create(ctx context.Context, tenantID string, in CreateProduct) (domain.Product, error) {
	if tenantID == "" {
		return domain.Product{}, tenancy.ErrTenantContextMissing
	}
	p, err := domain.NewProduct(uuid.NewString(), tenantID, in.SKU, in.Name, in.BasePrice, in.Inventory, s.now())
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.log.InfoContext(ctx, "product created", "tenant_id", tenantID, "product_id", p.ID, "sku", p.SKU)
	return p, nil
}

// FindBySKU returns domain.ErrProductNotFound when the tenant has no such SKU.
func (s *Service) FindBySKU(ctx context.Context, tenantID, sku string) (domain.Product, error) {
	if tenantID == "" {
		return domain.Product{}, tenancy.ErrTenantContextMissing
	}
	return s.repo.FindBySKU(ctx, tenantID, sku)
}

func (s *Service) List(ctx context.Context, tenantID string, f domain.Filter) (domain.Page, error) {
	if tenantID == "" {
		return domain.Page{}, tenancy.ErrTenantContextMissing
	}
	f, err := f.Normalize()
	if err != nil {
		return domain.Page{}, err
	}
	return s.repo.List(ctx, tenantID, f)
}
