package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/storefront/internal/cart/domain"
	"github.com/dmehra2102/storefront/internal/pricing"
	"github.com/dmehra2102/storefront/pkg/tenancy"
)

const defaultSaveAttempts = 3

type Service struct {
	log          *slog.Logger
	repo         CartRepository
	catalog      ProductCatalog
	engine       PriceEngine
	saveAttempts int
	now          func() time.Time
}

type Option func(*Service)

// WithSaveAttempts bounds how often AddToCart reloads and retries after a
// concurrent modification.
func WithSaveAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.saveAttempts = n
		}
	}
}

func NewService(log *slog.Logger, repo CartRepository, catalog ProductCatalog, engine PriceEngine, opts ...Option) *Service {
	s := &Service{
		log:          log,
		repo:         repo,
		catalog:      catalog,
		engine:       engine,
		saveAttempts: defaultSaveAttempts,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToCart prices sku for the user and puts it in their active cart,
// creating the cart if needed. An existing line for sku is replaced.
func (s *Service) AddToCart(ctx context.Context, tenantID, userID, sku string, quantity int) (*domain.Cart, error) {
	if err := tenancy.Require(tenantID, userID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.catalog.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	if product.Inventory < quantity {
		return nil, &domain.InsufficientInventoryError{SKU: sku, Requested: quantity, Available: product.Inventory}
	}

	price := s.engine.CalculatePrice(pricing.Context{
		TenantID:  tenantID,
		SKU:       product.SKU,
		BasePrice: product.BasePrice,
		Inventory: product.Inventory,
	})
	item, err := domain.NewItem(product.ID, product.SKU, product.Name, quantity, price, product.BasePrice)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		c, _, err := s.ActiveCart(ctx, tenantID, userID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			c = domain.New(uuid.NewString(), tenantID, userID, s.now())
		}
		c.AddOrReplaceItem(item, s.engine, s.now())

		err = s.repo.Save(ctx, c)
		if errors.Is(err, domain.ErrCartConflict) && attempt < s.saveAttempts {
			s.log.WarnContext(ctx, "cart save conflict, retrying", "tenant_id", tenantID, "user_id", userID, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.InfoContext(ctx, "cart item added",
			"tenant_id", tenantID,
			"user_id", userID,
			"cart_id", c.ID,
			"sku", sku,
			"quantity", quantity,
			"unit_price", price.String(),
		)
		return c, nil
	}
}

// GetCart returns the active cart, or an empty unsaved one.
func (s *Service) GetCart(ctx context.Context, tenantID, userID string) (*domain.Cart, error) {
	if err := tenancy.Require(tenantID, userID); err != nil {
		return nil, err
	}
	c, ok, err := s.ActiveCart(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.New("", tenantID, userID, s.now()), nil
	}
	return c, nil
}

// ActiveCart reports whether the user has an active cart. A nil cart with
// ok false is not an error.
func (s *Service) ActiveCart(ctx context.Context, tenantID, userID string) (*domain.Cart, bool, error) {
	c, err := s.repo.FindActive(ctx, tenantID, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// ClearCart retires cartID. The next AddToCart starts a new cart.
func (s *Service) ClearCart(ctx context.Context, tenantID, userID, cartID string) error {
	if err := tenancy.Require(tenantID, userID); err != nil {
		return err
	}
	if err := s.repo.Retire(ctx, tenantID, cartID, s.now()); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "cart retired", "tenant_id", tenantID, "user_id", userID, "cart_id", cartID)
	return nil
}
