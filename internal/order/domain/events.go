package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AggregateType        = "order"
	EventTypeOrderPlaced = "OrderPlaced"
)

type OrderPlacedItem struct {
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type OrderPlaced struct {
	OrderID        string            `json:"orderId"`
	TenantID       string            `json:"tenantId"`
	UserID         string            `json:"userId"`
	IdempotencyKey string            `json:"idempotencyKey"`
	TotalAmount    decimal.Decimal   `json:"totalAmount"`
	Items          []OrderPlacedItem `json:"items"`
	PlacedAt       time.Time         `json:"placedAt"`
}

func NewOrderPlaced(o Order) OrderPlaced {
	items := make([]OrderPlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderPlacedItem{SKU: it.SKU, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return OrderPlaced{
		OrderID:        o.ID,
		TenantID:       o.TenantID,
		UserID:         o.UserID,
		IdempotencyKey: o.IdempotencyKey,
		TotalAmount:    o.TotalAmount,
		Items:          items,
		PlacedAt:       o.CreatedAt,
	}
}
