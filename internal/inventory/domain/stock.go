package domain

import "errors"

var (
	ErrNonPositiveQuantity = errors.New("reservation quantity must be positive")

	// ErrContention means a compare-and-set loop ran out of attempts.
	ErrContention = errors.New("inventory update contention")
)

type ReservationResult string

const (
	Reserved     ReservationResult = "reserved"
	Insufficient ReservationResult = "insufficient"
)

// Reservation is a quantity taken from one product's stock by a placement.
type Reservation struct {
	ProductID string
	SKU       string
	Quantity  int
}
