package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/internal/pricing"
)

// Item is one cart line. TotalPrice is always UnitPrice × Quantity.
type Item struct {
	ProductID     string          `json:"productId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	BaseUnitPrice decimal.Decimal `json:"baseUnitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

func NewItem(productID, sku, name string, quantity int, unitPrice, baseUnitPrice decimal.Decimal) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		ProductID:     productID,
		SKU:           sku,
		Name:          name,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		BaseUnitPrice: baseUnitPrice,
		TotalPrice:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Discounter computes the cart-level discount.
type Discounter interface {
	CartDiscount(pricing.CartContext) pricing.Discount
}

// Cart is a user's mutable basket within a tenant. At most one cart per
// (tenant, user) is active; retired carts are kept but never change again.
type Cart struct {
	ID             string
	TenantID       string
	UserID         string
	Active         bool
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountName   string
	Total          decimal.Decimal
	// Version is 0 until the cart is first stored.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	items []Item
}

func New(id, tenantID, userID string, now time.Time) *Cart {
	now = now.UTC()
	return &Cart{
		ID:             id,
		TenantID:       tenantID,
		UserID:         userID,
		Active:         true,
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Restore rebuilds a stored cart. Totals are taken as stored.
func Restore(c Cart, items []Item) *Cart {
	c.items = append([]Item(nil), items...)
	return &c
}

// AddOrReplaceItem drops any line with the same SKU, appends item as the
// newest line and recomputes the totals.
func (c *Cart) AddOrReplaceItem(item Item, d Discounter, now time.Time) {
	kept := make([]Item, 0, len(c.items)+1)
	for _, it := range c.items {
		if it.SKU != item.SKU {
			kept = append(kept, it)
		}
	}
	c.items = append(kept, item)
	c.UpdatedAt = now.UTC()
	c.Recalculate(d)
}

// Recalculate derives Subtotal, the discount and Total from the items. A nil
// Discounter means no cart-level discount.
func (c *Cart) Recalculate(d Discounter) {
	subtotal := decimal.Zero
	quantity := 0
	for _, it := range c.items {
		subtotal = subtotal.Add(it.TotalPrice)
		quantity += it.Quantity
	}

	discount := pricing.Discount{Amount: decimal.Zero}
	if d != nil && len(c.items) > 0 {
		discount = d.CartDiscount(pricing.CartContext{
			TenantID:  c.TenantID,
			Subtotal:  subtotal,
			ItemCount: len(c.items),
			Quantity:  quantity,
		})
	}
	if discount.Amount.IsNegative() {
		discount.Amount = decimal.Zero
	}
	if discount.Amount.GreaterThan(subtotal) {
		discount.Amount = subtotal
	}

	c.Subtotal = subtotal
	c.DiscountAmount = discount.Amount
	c.DiscountName = discount.Name
	c.Total = subtotal.Sub(discount.Amount)
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Retire deactivates the cart once it has been turned into an order.
func (c *Cart) Retire(now time.Time) {
	c.Active = false
	c.UpdatedAt = now.UTC()
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Cart) Clone() *Cart {
	cp := *c
	cp.items = c.Items()
	return &cp
}

type cartJSON struct {
	ID             string          `json:"id,omitempty"`
	TenantID       string          `json:"tenantId"`
	UserID         string          `json:"userId"`
	Active         bool            `json:"active"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	DiscountName   string          `json:"discountName,omitempty"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	items := c.Items()
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(cartJSON{
		ID:             c.ID,
		TenantID:       c.TenantID,
		UserID:         c.UserID,
		Active:         c.Active,
		Items:          items,
		Subtotal:       c.Subtotal,
		DiscountAmount: c.DiscountAmount,
		DiscountName:   c.DiscountName,
		Total:          c.Total,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	})
}
