package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/storefront/internal/tenant/domain"
)

type Service struct {
	log  *slog.Logger
	repo TenantRepository
	now  func() time.Time
}

func NewService(log *slog.Logger, repo TenantRepository) *Service {
	return &Service{log: log, repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, name string) (domain.Tenant, error) {
	t, err := domain.New(uuid.NewString(), name, s.now())
	if err != nil {
		return domain.Tenant{}, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return domain.Tenant{}, err
	}
	s.log.InfoContext(ctx, "tenant created", "tenant_id", t.ID, "slug", t.Slug)
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	return s.repo.List(ctx)
}
