package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type SortField string

const (
	SortByName      SortField = "name"
	SortBySKU       SortField = "sku"
	SortByPrice     SortField = "price"
	SortByInventory SortField = "inventory"
	SortByCreatedAt SortField = "createdAt"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter narrows a product listing. Text fields match case-insensitive
// substrings; nil pointers leave that dimension unconstrained.
type Filter struct {
	SKU      string
	Name     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  *bool
	SortBy   SortField
	Desc     bool
	Limit    int
	Offset   int
}

type Page struct {
	Items  []Product `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// Normalize validates f and fills in the paging and sort defaults.
func (f Filter) Normalize() (Filter, error) {
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return f, ErrInvalidProductRequest.Withf("minPrice must not be negative")
	}
	if f.MaxPrice != nil && !f.MaxPrice.IsPositive() {
		return f, ErrInvalidProductRequest.Withf("maxPrice must be positive")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return f, ErrInvalidProductRequest.Withf("minPrice must not exceed maxPrice")
	}
	if f.Offset < 0 {
		return f, ErrInvalidProductRequest.Withf("offset must not be negative")
	}
	if f.Limit < 0 {
		return f, ErrInvalidProductRequest.Withf("limit must be positive")
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	switch f.SortBy {
	case "":
		f.SortBy = SortByName
	case SortByName, SortBySKU, SortByPrice, SortByInventory, SortByCreatedAt:
	default:
		return f, ErrInvalidProductRequest.Withf("unsupported sortBy %q", string(f.SortBy))
	}
	f.SKU = strings.TrimSpace(f.SKU)
	f.Name = strings.TrimSpace(f.Name)
	return f, nil
}

// Matches reports whether p passes every constraint in f.
func (f Filter) Matches(p Product) bool {
	if f.SKU != "" && !containsFold(p.SKU, f.SKU) {
		return false
	}
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.MinPrice != nil && p.BasePrice.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.BasePrice.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.InStock != nil && (p.Inventory > 0) != *f.InStock {
		return false
	}
	return true
}

// Less orders two products by the filter's sort field, breaking ties by SKU.
func (f Filter) Less(a, b Product) bool {
	var c int
	switch f.SortBy {
	case SortBySKU:
		c = strings.Compare(a.SKU, b.SKU)
	case SortByPrice:
		c = a.BasePrice.Cmp(b.BasePrice)
	case SortByInventory:
		c = compareInt(a.Inventory, b.Inventory)
	case SortByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	default:
		c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	if c == 0 {
		c = strings.Compare(a.SKU, b.SKU)
	}
	if f.Desc {
		return c > 0
	}
	return c < 0
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
