package domain

import (
	"fmt"
	"time"

	inventory "github.com/dmehra2102/storefront/internal/inventory/domain"
)

type PlacementState string

const (
	StateStarted   PlacementState = "started"
	StateReserved  PlacementState = "reserved"
	StatePersisted PlacementState = "persisted"
	StateCompleted PlacementState = "completed"
	StateAborted   PlacementState = "aborted"
)

var transitions = map[PlacementState][]PlacementState{
	StateStarted:   {StateReserved, StateAborted},
	StateReserved:  {StatePersisted, StateAborted},
	StatePersisted: {StateCompleted},
}

// Placement tracks one attempt to turn a cart into an order. It records
// what was reserved so an aborted attempt knows what it could give back.
type Placement struct {
	TenantID       string
	UserID         string
	IdempotencyKey string
	CartID         string
	OrderID        string
	State          PlacementState
	Reservations   []inventory.Reservation
	AbortReason    string
	StartedAt      time.Time
}

func NewPlacement(tenantID, userID, key string, now time.Time) *Placement {
	return &Placement{
		TenantID:       tenantID,
		UserID:         userID,
		IdempotencyKey: key,
		State:          StateStarted,
		StartedAt:      now,
	}
}

func (p *Placement) Reserved(r inventory.Reservation) {
	p.Reservations = append(p.Reservations, r)
}

// Advance moves to the next state, refusing transitions the flow never makes.
func (p *Placement) Advance(to PlacementState) error {
	for _, allowed := range transitions[p.State] {
		if allowed == to {
			p.State = to
			return nil
		}
	}
	return fmt.Errorf("placement %s: invalid transition %s -> %s", p.IdempotencyKey, p.State, to)
}

func (p *Placement) Abort(reason string) {
	if p.Terminal() {
		return
	}
	p.State = StateAborted
	p.AbortReason = reason
}

func (p *Placement) Terminal() bool {
	return p.State == StateCompleted || p.State == StateAborted
}
