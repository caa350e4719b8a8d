// Package memory stores orders and their outbox events in process. It
// satisfies the same contracts as the Postgres store, including the
// (tenant, idempotency key) uniqueness and outbox leasing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmehra2102/storefront/internal/order/domain"
	"github.com/dmehra2102/storefront/pkg/outbox"
)

type keyIndex struct{ tenantID, key string }

type leasedEvent struct {
	outbox.Event
	leaseUntil time.Time
}

type Repository struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	byKey  map[keyIndex]string
	events []*leasedEvent
	nextID int64
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		orders: make(map[string]domain.Order),
		byKey:  make(map[keyIndex]string),
		now:    time.Now,
	}
}

func (r *Repository) Create(_ context.Context, o domain.Order, event outbox.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := keyIndex{o.TenantID, o.IdempotencyKey}
	if _, ok := r.byKey[k]; ok {
		return domain.ErrOrderAlreadyExists
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	r.orders[o.ID] = o
	r.byKey[k] = o.ID

	r.nextID++
	r.events = append(r.events, &leasedEvent{Event: outbox.Event{
		ID:            r.nextID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Type:          event.Type,
		Payload:       event.Payload,
		Headers:       event.Headers,
		Traceparent:   event.Traceparent,
		Status:        outbox.StatusPending,
		CreatedAt:     r.now().UTC(),
	}})
	return nil
}

func (r *Repository) Get(_ context.Context, tenantID, id string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *Repository) FindByIdempotencyKey(_ context.Context, tenantID, key string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byKey[keyIndex{tenantID, key}]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(r.orders[id]), nil
}

// Count returns the number of stored orders.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// Events returns a snapshot of every outbox event in insertion order.
func (r *Repository) Events() []outbox.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]outbox.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

func (r *Repository) LockBatch(_ context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var out []outbox.Event
	for _, e := range r.events {
		if len(out) == batchSize {
			break
		}
		expired := e.Status == outbox.StatusInProgress && now.After(e.leaseUntil)
		if e.Status != outbox.StatusPending && !expired {
			continue
		}
		e.Status = outbox.StatusInProgress
		e.RelayID = relayID
		e.leaseUntil = now.Add(lease)
		out = append(out, e.Event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) MarkSent(_ context.Context, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if e := r.event(id); e != nil {
			e.Status = outbox.StatusSent
		}
	}
	return nil
}

func (r *Repository) MarkFailed(_ context.Context, id int64, errMsg string, retry bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.event(id)
	if e == nil {
		return nil
	}
	e.RetryCount++
	e.LastError = &errMsg
	e.Status = outbox.StatusFailed
	if retry {
		e.Status = outbox.StatusPending
	}
	return nil
}

func (r *Repository) event(id int64) *leasedEvent {
	for _, e := range r.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}
