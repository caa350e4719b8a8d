package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/storefront/internal/cart/domain"
)

type owner struct{ tenantID, userID string }

// Repository stores deep copies so callers never share state with it.
type Repository struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	active map[owner]string
}

func NewRepository() *Repository {
	return &Repository{
		carts:  make(map[string]*domain.Cart),
		active: make(map[owner]string),
	}
}

func (r *Repository) FindActive(_ context.Context, tenantID, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.active[owner{tenantID, userID}]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return r.carts[id].Clone(), nil
}

func (r *Repository) Save(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o := owner{c.TenantID, c.UserID}

	stored, exists := r.carts[c.ID]
	switch {
	case !exists && c.Version != 0:
		return domain.ErrCartConflict
	case exists && stored.Version != c.Version:
		return domain.ErrCartConflict
	}
	if c.Active {
		if id, ok := r.active[o]; ok && id != c.ID {
			return domain.ErrCartConflict
		}
	}

	c.Version++
	r.carts[c.ID] = c.Clone()
	if c.Active {
		r.active[o] = c.ID
	} else if r.active[o] == c.ID {
		delete(r.active, o)
	}
	return nil
}

func (r *Repository) Retire(_ context.Context, tenantID, cartID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[cartID]
	if !ok || c.TenantID != tenantID || !c.Active {
		return nil
	}
	c.Retire(now)
	c.Version++
	delete(r.active, owner{c.TenantID, c.UserID})
	return nil
}
