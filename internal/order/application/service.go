package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/outbox"
	"github.com/dmehra2102/storefront/pkg/tenancy"
	"github.com/dmehra2102/storefront/pkg/tracing"
)

type Service struct {
	log  *slog.Logger
	repo OrderRepository
}

func NewService(log *slog.Logger, repo OrderRepository) *Service {
	return &Service{log: log, repo: repo}
}

// Create persists o together with its OrderPlaced event. The event carries
// the caller's trace so the relay can continue it.
func (s *Service) Create(ctx context.Context, o domain.Order) error {
	payload, err := json.Marshal(domain.NewOrderPlaced(o))
	if err != nil {
		return err
	}
	event := outbox.Record{
		AggregateType: domain.AggregateType,
		AggregateID:   o.ID,
		Type:          domain.EventTypeOrderPlaced,
		Payload:       payload,
		Headers:       map[string]string{"tenant_id": o.TenantID},
		Traceparent:   tracing.Traceparent(ctx),
	}
	return s.repo.Create(ctx, o, event)
}

func (s *Service) GetOrder(ctx context.Context, tenantID, id string) (domain.Order, error) {
	if tenantID == "" {
		return domain.Order{}, tenancy.ErrTenantContextMissing
	}
	return s.repo.Get(ctx, tenantID, id)
}

// FindByIdempotencyKey reports ok false when no order holds the key.
func (s *Service) FindByIdempotencyKey(ctx context.Context, tenantID, key string) (domain.Order, bool, error) {
	o, err := s.repo.FindByIdempotencyKey(ctx, tenantID, key)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, err
	}
	return o, true, nil
}
