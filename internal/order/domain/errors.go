package domain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

var (
	ErrEmptyCart              = apperr.New("EMPTY_CART", http.StatusBadRequest, "cart is empty")
	ErrOrderNotFound          = apperr.New("ORDER_NOT_FOUND", http.StatusNotFound, "order not found")
	ErrIdempotencyKeyRequired = apperr.New("IDEMPOTENCY_KEY_REQUIRED", http.StatusBadRequest, "Idempotency-Key header is required")

	// ErrPlacementInProgress means another attempt with the same key is
	// still running. Retrying later with the same key is safe.
	ErrPlacementInProgress = apperr.New("ORDER_IN_PROGRESS", http.StatusConflict, "an order with this idempotency key is being placed")

	// ErrOrderAlreadyExists is raised by storage when (tenant, key) is taken.
	// It never leaves the placement flow.
	ErrOrderAlreadyExists = errors.New("order already exists for idempotency key")
)

// InsufficientInventoryForOrderError names the first line that could not be
// reserved at placement.
type InsufficientInventoryForOrderError struct {
	SKU string
}

func (e *InsufficientInventoryForOrderError) Error() string {
	return fmt.Sprintf("insufficient inventory to place order: %s", e.SKU)
}

func (e *InsufficientInventoryForOrderError) Code() string    { return "INSUFFICIENT_INVENTORY_FOR_ORDER" }
func (e *InsufficientInventoryForOrderError) HTTPStatus() int { return http.StatusConflict }
