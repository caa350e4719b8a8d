package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dmehra2102/storefront/internal/tenant/domain"
)

type Repository struct {
	mu      sync.RWMutex
	tenants map[string]domain.Tenant
}

func NewRepository() *Repository {
	return &Repository{tenants: make(map[string]domain.Tenant)}
}

func (r *Repository) Create(_ context.Context, t domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tenants {
		if strings.EqualFold(existing.Name, t.Name) || existing.Slug == t.Slug {
			return domain.ErrTenantAlreadyExists
		}
	}
	r.tenants[t.ID] = t
	return nil
}

func (r *Repository) List(_ context.Context) ([]domain.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Tenant, 0, len(r.tenants))
	for _, t := range r.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
