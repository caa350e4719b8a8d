package domain

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

var (
	ErrProductNotFound       = apperr.New("PRODUCT_NOT_FOUND", http.StatusNotFound, "product not found")
	ErrProductAlreadyExists  = apperr.New("PRODUCT_ALREADY_EXISTS", http.StatusConflict, "product with this sku already exists")
	ErrInvalidProductRequest = apperr.New("INVALID_PRODUCT_REQUEST", http.StatusBadRequest, "invalid product request")
)

// Product is a tenant's sellable item. Inventory only changes through the
// reservation primitive, which also bumps Version.
type Product struct {
	ID        string          `json:"id"`
	TenantID  string          `json:"tenantId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Inventory int             `json:"inventory"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewProduct(id, tenantID, sku, name string, basePrice decimal.Decimal, inventory int, now time.Time) (Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	switch {
	case sku == "":
		return Product{}, ErrInvalidProductRequest.Withf("sku is required")
	case name == "":
		return Product{}, ErrInvalidProductRequest.Withf("name is required")
	case basePrice.IsNegative():
		return Product{}, ErrInvalidProductRequest.Withf("basePrice must not be negative")
	case inventory < 0:
		return Product{}, ErrInvalidProductRequest.Withf("inventory must not be negative")
	}
	return Product{
		ID:        id,
		TenantID:  tenantID,
		SKU:       sku,
		Name:      name,
		BasePrice: basePrice,
		Inventory: inventory,
		CreatedAt: now.UTC(),
	}, nil
}
