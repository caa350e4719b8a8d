package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	cart "github.com/dmehra2102/storefront/internal/cart/domain"
	inventory "github.com/dmehra2102/storefront/internal/inventory/domain"
	"github.com/dmehra2102/storefront/internal/orchestrator/domain"
	order "github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

// Coordinator turns a user's active cart into an order, at most once per
// (tenant, idempotency key).
type Coordinator struct {
	log        *slog.Logger
	orders     Orders
	carts      Carts
	inventory  Inventory
	guard      InFlightGuard
	compensate bool
	now        func() time.Time
	newID      func() string
	tracer     trace.Tracer
}

type Option func(*Coordinator)

// WithGuard adds a fast-path check that rejects a second attempt while the
// first is still running. The orders table stays authoritative.
func WithGuard(g InFlightGuard) Option { return func(c *Coordinator) { c.guard = g } }

// WithCompensation releases the reservations of an attempt that did not
// produce an order.
func WithCompensation(enabled bool) Option { return func(c *Coordinator) { c.compensate = enabled } }

func NewCoordinator(log *slog.Logger, orders Orders, carts Carts, inv Inventory, opts ...Option) *Coordinator {
	c := &Coordinator{
		log:       log,
		orders:    orders,
		carts:     carts,
		inventory: inv,
		now:       time.Now,
		newID:     uuid.NewString,
		tracer:    otel.Tracer("orchestrator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) PlaceOrder(ctx context.Context, tenantID, userID, idempotencyKey string) (order.Order, error) {
	o, _, err := c.Place(ctx, tenantID, userID, idempotencyKey)
	return o, err
}

// Place is PlaceOrder that also reports whether this call created the order
// (true) or returned one placed earlier with the same key (false).
func (c *Coordinator) Place(ctx context.Context, tenantID, userID, idempotencyKey string) (o order.Order, created bool, err error) {
	if err := tenancy.Require(tenantID, userID); err != nil {
		return order.Order{}, false, err
	}
	if idempotencyKey == "" {
		return order.Order{}, false, order.ErrIdempotencyKeyRequired
	}

	ctx, span := c.tracer.Start(ctx, "orchestrator.place_order", trace.WithAttributes(
		attribute.String("tenant.id", tenantID),
		attribute.String("order.idempotency_key", idempotencyKey),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "place order failed")
		} else {
			span.SetAttributes(attribute.String("order.id", o.ID), attribute.Bool("order.created", created))
		}
		span.End()
	}()

	if existing, ok, err := c.orders.FindByIdempotencyKey(ctx, tenantID, idempotencyKey); err != nil || ok {
		return c.replay(ctx, existing, err)
	}

	if c.guard != nil {
		release, acquired, gErr := c.guard.Acquire(ctx, tenantID, idempotencyKey)
		switch {
		case gErr != nil:
			c.log.WarnContext(ctx, "in-flight guard unavailable, continuing", "tenant_id", tenantID, "err", gErr)
		case !acquired:
			return order.Order{}, false, order.ErrPlacementInProgress
		default:
			defer func() {
				if rErr := release(context.WithoutCancel(ctx)); rErr != nil {
					c.log.WarnContext(ctx, "in-flight guard release failed", "tenant_id", tenantID, "err", rErr)
				}
			}()
			if existing, ok, err := c.orders.FindByIdempotencyKey(ctx, tenantID, idempotencyKey); err != nil || ok {
				return c.replay(ctx, existing, err)
			}
		}
	}

	p := domain.NewPlacement(tenantID, userID, idempotencyKey, c.now())
	return c.run(ctx, p)
}

func (c *Coordinator) run(ctx context.Context, p *domain.Placement) (order.Order, bool, error) {
	snapshot, ok, err := c.carts.ActiveCart(ctx, p.TenantID, p.UserID)
	if err != nil {
		p.Abort("cart lookup failed")
		return order.Order{}, false, err
	}
	if !ok || snapshot.IsEmpty() {
		p.Abort("empty cart")
		// A concurrent attempt with the same key may have just retired it.
		if existing, found, err := c.orders.FindByIdempotencyKey(ctx, p.TenantID, p.IdempotencyKey); err != nil || found {
			return c.replay(ctx, existing, err)
		}
		return order.Order{}, false, order.ErrEmptyCart
	}
	p.CartID = snapshot.ID

	if err := c.reserve(ctx, p, snapshot); err != nil {
		return order.Order{}, false, err
	}
	if err := p.Advance(domain.StateReserved); err != nil {
		return order.Order{}, false, err
	}

	o := order.NewFromCart(c.newID(), snapshot, p.IdempotencyKey, c.now())
	p.OrderID = o.ID
	err = c.orders.Create(ctx, o)
	if errors.Is(err, order.ErrOrderAlreadyExists) {
		c.abort(ctx, p, "idempotency key taken concurrently", true)
		existing, found, err := c.orders.FindByIdempotencyKey(ctx, p.TenantID, p.IdempotencyKey)
		if err == nil && !found {
			err = fmt.Errorf("order for key %s not found after conflict", p.IdempotencyKey)
		}
		return c.replay(ctx, existing, err)
	}
	if err != nil {
		c.abort(ctx, p, "persist failed", c.compensate)
		return order.Order{}, false, err
	}
	if err := p.Advance(domain.StatePersisted); err != nil {
		return order.Order{}, false, err
	}

	if err := c.carts.ClearCart(ctx, p.TenantID, p.UserID, p.CartID); err != nil {
		return order.Order{}, false, fmt.Errorf("retire cart %s for order %s: %w", p.CartID, o.ID, err)
	}
	if err := p.Advance(domain.StateCompleted); err != nil {
		return order.Order{}, false, err
	}

	c.log.InfoContext(ctx, "order placed",
		"tenant_id", p.TenantID,
		"user_id", p.UserID,
		"order_id", o.ID,
		"cart_id", p.CartID,
		"items", len(o.Items),
		"total", o.TotalAmount.String(),
	)
	return o, true, nil
}

// reserve takes stock for every cart line in order and stops at the first
// line that cannot be covered.
func (c *Coordinator) reserve(ctx context.Context, p *domain.Placement, snapshot *cart.Cart) error {
	for _, it := range snapshot.Items() {
		ok, err := c.inventory.Reserve(ctx, it.ProductID, it.Quantity)
		if err != nil {
			c.abort(ctx, p, "reserve failed", c.compensate)
			return err
		}
		if !ok {
			c.abort(ctx, p, "insufficient inventory for "+it.SKU, c.compensate)
			return &order.InsufficientInventoryForOrderError{SKU: it.SKU}
		}
		p.Reserved(inventory.Reservation{ProductID: it.ProductID, SKU: it.SKU, Quantity: it.Quantity})
	}
	return nil
}

// abort ends the placement and, when release is set, hands back the stock it
// reserved. A placement that lost its key to another attempt always releases.
func (c *Coordinator) abort(ctx context.Context, p *domain.Placement, reason string, release bool) {
	if p.Terminal() {
		return
	}
	p.Abort(reason)
	c.log.WarnContext(ctx, "order placement aborted",
		"tenant_id", p.TenantID,
		"idempotency_key", p.IdempotencyKey,
		"reason", reason,
		"reserved_lines", len(p.Reservations),
		"release", release,
	)
	if !release {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for i := len(p.Reservations) - 1; i >= 0; i-- {
		r := p.Reservations[i]
		if err := c.inventory.Release(ctx, r.ProductID, r.Quantity); err != nil {
			c.log.ErrorContext(ctx, "compensating release failed",
				"product_id", r.ProductID,
				"sku", r.SKU,
				"quantity", r.Quantity,
				"err", err,
			)
		}
	}
}

func (c *Coordinator) replay(ctx context.Context, existing order.Order, err error) (order.Order, bool, error) {
	if err != nil {
		return order.Order{}, false, err
	}
	c.log.InfoContext(ctx, "order replayed", "tenant_id", existing.TenantID, "order_id", existing.ID)
	return existing, false, nil
}
