// Package memory keeps products in process. It also serves as the
// inventory store for deployments without Postgres, exposing versioned
// snapshots for compare-and-set reservation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dmehra2102/storefront/internal/catalog/domain"
)

type skuKey struct{ tenantID, sku string }

type Repository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Product
	bySKU map[skuKey]string
}

func NewRepository() *Repository {
	return &Repository{
		byID:  make(map[string]*domain.Product),
		bySKU: make(map[skuKey]string),
	}
}

func (r *Repository) Create(_ context.Context, p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := skuKey{p.TenantID, p.SKU}
	if _, ok := r.bySKU[k]; ok {
		return domain.ErrProductAlreadyExists
	}
	cp := p
	r.byID[p.ID] = &cp
	r.bySKU[k] = p.ID
	return nil
}

func (r *Repository) FindBySKU(_ context.Context, tenantID, sku string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySKU[skuKey{tenantID, sku}]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return *r.byID[id], nil
}

func (r *Repository) List(_ context.Context, tenantID string, f domain.Filter) (domain.Page, error) {
	r.mu.RLock()
	var matched []domain.Product
	for _, p := range r.byID {
		if p.TenantID == tenantID && f.Matches(*p) {
			matched = append(matched, *p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return f.Less(matched[i], matched[j]) })
	page := domain.Page{Items: []domain.Product{}, Total: len(matched), Limit: f.Limit, Offset: f.Offset}
	if f.Offset < len(matched) {
		end := min(f.Offset+f.Limit, len(matched))
		page.Items = matched[f.Offset:end]
	}
	return page, nil
}

// Snapshot returns the current stock level and its version.
func (r *Repository) Snapshot(_ context.Context, productID string) (inventory int, version int64, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[productID]
	if !ok {
		return 0, 0, domain.ErrProductNotFound
	}
	return p.Inventory, p.Version, nil
}

// CompareAndSet writes inventory only if the product is still at
// expectedVersion, bumping the version on success.
func (r *Repository) CompareAndSet(_ context.Context, productID string, expectedVersion int64, inventory int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[productID]
	if !ok {
		return false, domain.ErrProductNotFound
	}
	if p.Version != expectedVersion || inventory < 0 {
		return false, nil
	}
	p.Inventory = inventory
	p.Version++
	return true, nil
}
