package application

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/storefront/internal/inventory/domain"
)

// Service is the reservation primitive the placement flow depends on.
type Service struct {
	log    *slog.Logger
	store  AtomicStore
	tracer trace.Tracer
}

func NewService(log *slog.Logger, store AtomicStore) *Service {
	return &Service{
		log:    log,
		store:  store,
		tracer: otel.Tracer("inventory"),
	}
}

// Reserve takes quantity units of productID if, and only if, that many are
// in stock. Insufficient stock is reported as false, not as an error.
func (s *Service) Reserve(ctx context.Context, productID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrNonPositiveQuantity
	}
	ctx, span := s.tracer.Start(ctx, "inventory.reserve", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("inventory.quantity", quantity),
	))
	defer span.End()

	ok, err := s.store.DecrementIfAvailable(ctx, productID, quantity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reserve failed")
		return false, err
	}
	result := domain.Reserved
	if !ok {
		result = domain.Insufficient
	}
	span.SetAttributes(attribute.String("inventory.result", string(result)))
	s.log.DebugContext(ctx, "inventory reserve", "product_id", productID, "quantity", quantity, "result", result)
	return ok, nil
}

// Release returns previously reserved units. It is only used to compensate
// an aborted placement.
func (s *Service) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrNonPositiveQuantity
	}
	ctx, span := s.tracer.Start(ctx, "inventory.release", trace.WithAttributes(
		attribute.String("product.id", productID),
		attribute.Int("inventory.quantity", quantity),
	))
	defer span.End()

	if err := s.store.Increment(ctx, productID, quantity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "release failed")
		return err
	}
	s.log.InfoContext(ctx, "inventory released", "product_id", productID, "quantity", quantity)
	return nil
}
