package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

var (
	ErrInvalidQuantity = apperr.New("VALIDATION_ERROR", http.StatusBadRequest, "quantity must be greater than zero")

	// ErrCartNotFound means the user has no active cart. Callers usually
	// translate it into an empty cart.
	ErrCartNotFound = errors.New("active cart not found")

	// ErrCartConflict is returned by Save when the stored cart moved on
	// since it was loaded, or another active cart was created first.
	ErrCartConflict = errors.New("cart modified concurrently")
)

// InsufficientInventoryError is the advisory check done when an item is
// added. It does not reserve anything.
type InsufficientInventoryError struct {
	SKU       string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %s: requested %d, available %d", e.SKU, e.Requested, e.Available)
}

func (e *InsufficientInventoryError) Code() string    { return "INSUFFICIENT_INVENTORY" }
func (e *InsufficientInventoryError) HTTPStatus() int { return http.StatusConflict }
