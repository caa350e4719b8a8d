package domain

import (
	"time"

	"github.com/shopspring/decimal"

	cart "github.com/dmehra2102/storefront/internal/cart/domain"
)

type OrderStatus string

const StatusCreated OrderStatus = "created"

// OrderItem is a frozen copy of a cart line.
type OrderItem struct {
	ProductID     string          `json:"productId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	BaseUnitPrice decimal.Decimal `json:"baseUnitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Order is immutable once created. Its prices are the cart's prices at
// placement time and are never recalculated.
type Order struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenantId"`
	UserID         string          `json:"userId"`
	IdempotencyKey string          `json:"idempotencyKey"`
	Status         OrderStatus     `json:"status"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountName   string          `json:"discountName,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewFromCart snapshots c. Later changes to the cart do not reach the order.
func NewFromCart(id string, c *cart.Cart, idempotencyKey string, now time.Time) Order {
	lines := c.Items()
	items := make([]OrderItem, 0, len(lines))
	for _, it := range lines {
		items = append(items, OrderItem{
			ProductID:     it.ProductID,
			SKU:           it.SKU,
			Name:          it.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			BaseUnitPrice: it.BaseUnitPrice,
			TotalPrice:    it.TotalPrice,
		})
	}
	return Order{
		ID:             id,
		TenantID:       c.TenantID,
		UserID:         c.UserID,
		IdempotencyKey: idempotencyKey,
		Status:         StatusCreated,
		Items:          items,
		Subtotal:       c.Subtotal,
		DiscountAmount: c.DiscountAmount,
		DiscountName:   c.DiscountName,
		TotalAmount:    c.Total,
		CreatedAt:      now.UTC(),
	}
}
