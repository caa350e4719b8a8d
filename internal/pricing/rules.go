package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Context is the input to per-item pricing. BasePrice is the running price
// when a rule sees it, not the catalog price.
type Context struct {
	TenantID  string
	SKU       string
	BasePrice decimal.Decimal
	Inventory int
}

type ItemRuleKind int

const (
	KindPercentageOff ItemRuleKind = iota + 1
	KindFlatOff
	KindLowStock
)

func (k ItemRuleKind) String() string {
	switch k {
	case KindPercentageOff:
		return "percentage_off"
	case KindFlatOff:
		return "flat_off"
	case KindLowStock:
		return "low_stock"
	default:
		return fmt.Sprintf("item_rule(%d)", int(k))
	}
}

// ItemRule is one per-item pricing step. Build it with the constructors
// below; the zero value never applies.
type ItemRule struct {
	Kind      ItemRuleKind
	Fraction  decimal.Decimal // KindPercentageOff: 0.10 means 10% off
	Amount    decimal.Decimal // KindFlatOff: amount off; KindLowStock: signed delta
	Threshold int             // KindLowStock: applies when inventory < Threshold
}

func PercentageOff(fraction decimal.Decimal) ItemRule {
	return ItemRule{Kind: KindPercentageOff, Fraction: fraction}
}

func FlatOff(amount decimal.Decimal) ItemRule {
	return ItemRule{Kind: KindFlatOff, Amount: amount}
}

// LowStockAdjustment adds delta to the price while inventory is below
// threshold. A negative delta is a discount, a positive one a surcharge.
func LowStockAdjustment(threshold int, delta decimal.Decimal) ItemRule {
	return ItemRule{Kind: KindLowStock, Threshold: threshold, Amount: delta}
}

func (r ItemRule) String() string {
	switch r.Kind {
	case KindPercentageOff:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Fraction)
	case KindFlatOff:
		return fmt.Sprintf("%s(%s)", r.Kind, r.Amount)
	case KindLowStock:
		return fmt.Sprintf("%s(<%d, %s)", r.Kind, r.Threshold, r.Amount)
	}
	return r.Kind.String()
}

// evaluate is the single dispatch point for item rules.
func (r ItemRule) evaluate(ctx Context) (bool, decimal.Decimal) {
	price := ctx.BasePrice
	switch r.Kind {
	case KindPercentageOff:
		if !r.Fraction.IsPositive() {
			return false, price
		}
		return true, clamp(price.Sub(price.Mul(r.Fraction)))
	case KindFlatOff:
		if !r.Amount.IsPositive() {
			return false, price
		}
		return true, clamp(price.Sub(r.Amount))
	case KindLowStock:
		if ctx.Inventory >= r.Threshold || r.Amount.IsZero() {
			return false, price
		}
		return true, clamp(price.Add(r.Amount))
	default:
		return false, price
	}
}

type CartRuleKind int

const (
	KindOrderValuePercent CartRuleKind = iota + 1
	KindOrderValueFlat
)

// CartContext carries the aggregate cart properties cart rules look at.
type CartContext struct {
	TenantID  string
	Subtotal  decimal.Decimal
	ItemCount int
	Quantity  int
}

type Discount struct {
	Amount decimal.Decimal
	Name   string
}

// CartRule applies when the subtotal is strictly above Threshold.
type CartRule struct {
	Kind      CartRuleKind
	Name      string
	Threshold decimal.Decimal
	Fraction  decimal.Decimal
	Amount    decimal.Decimal
	// Stack lets later rules apply too; otherwise evaluation stops here.
	Stack bool
}

func OrderValueDiscount(threshold, fraction decimal.Decimal, name string) CartRule {
	return CartRule{Kind: KindOrderValuePercent, Name: name, Threshold: threshold, Fraction: fraction}
}

func OrderValueFlatDiscount(threshold, amount decimal.Decimal, name string) CartRule {
	return CartRule{Kind: KindOrderValueFlat, Name: name, Threshold: threshold, Amount: amount}
}

func (r CartRule) Stacking() CartRule {
	r.Stack = true
	return r
}

func (r CartRule) evaluate(c CartContext) (bool, decimal.Decimal) {
	if c.Subtotal.LessThanOrEqual(r.Threshold) {
		return false, decimal.Zero
	}
	switch r.Kind {
	case KindOrderValuePercent:
		if !r.Fraction.IsPositive() {
			return false, decimal.Zero
		}
		return true, c.Subtotal.Mul(r.Fraction)
	case KindOrderValueFlat:
		if !r.Amount.IsPositive() {
			return false, decimal.Zero
		}
		return true, r.Amount
	default:
		return false, decimal.Zero
	}
}

func clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
