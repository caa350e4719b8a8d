package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places prices are rounded to.
const MoneyScale = 2

// Engine applies a fixed, ordered list of item rules and cart rules. It is
// immutable after construction and safe for concurrent use.
type Engine struct {
	items []ItemRule
	carts []CartRule
}

func NewEngine(items []ItemRule, carts []CartRule) *Engine {
	return &Engine{
		items: append([]ItemRule(nil), items...),
		carts: append([]CartRule(nil), carts...),
	}
}

// CalculatePrice runs the item rules in order, each one seeing the price
// produced by the previous applicable rule.
func (e *Engine) CalculatePrice(ctx Context) decimal.Decimal {
	price := clamp(ctx.BasePrice)
	for _, rule := range e.items {
		step := ctx
		step.BasePrice = price
		if ok, next := rule.evaluate(step); ok {
			price = next
		}
	}
	return price.Round(MoneyScale)
}

// CartDiscount evaluates the cart rules against the cart aggregate. The
// returned amount never exceeds the subtotal.
func (e *Engine) CartDiscount(c CartContext) Discount {
	total := decimal.Zero
	var names []string
	for _, rule := range e.carts {
		ok, amount := rule.evaluate(c)
		if !ok {
			continue
		}
		total = total.Add(amount)
		names = append(names, rule.Name)
		if !rule.Stack {
			break
		}
	}
	if total.GreaterThan(c.Subtotal) {
		total = c.Subtotal
	}
	return Discount{
		Amount: total.Round(MoneyScale),
		Name:   strings.Join(names, " + "),
	}
}

func (e *Engine) ItemRules() []ItemRule { return append([]ItemRule(nil), e.items...) }
func (e *Engine) CartRules() []CartRule { return append([]CartRule(nil), e.carts...) }

// DefaultItemRules is 10% off, then $5 off, then $2 off while fewer than 10
// units are in stock.
func DefaultItemRules() []ItemRule {
	return []ItemRule{
		PercentageOff(decimal.RequireFromString("0.10")),
		FlatOff(decimal.NewFromInt(5)),
		LowStockAdjustment(10, decimal.NewFromInt(-2)),
	}
}

func DefaultCartRules() []CartRule {
	return []CartRule{
		OrderValueDiscount(decimal.NewFromInt(100), decimal.RequireFromString("0.10"), "10% Off Order > $100"),
	}
}
