package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculatePrice_Defaults(t *testing.T) {
	e := NewEngine(DefaultItemRules(), DefaultCartRules())

	cases := []struct {
		name      string
		base      string
		inventory int
		want      string
	}{
		{"ample stock", "100.00", 50, "85.00"},
		{"low stock", "100.00", 5, "83.00"},
		{"threshold is exclusive", "100.00", 10, "85.00"},
		{"clamped at zero", "4.00", 50, "0.00"},
		{"clamped before low stock", "5.00", 1, "0.00"},
		{"rounds half away from zero", "10.05", 50, "4.05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.CalculatePrice(Context{TenantID: "t1", SKU: "SKU-1", BasePrice: dec(tc.base), Inventory: tc.inventory})
			assert.True(t, dec(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestCalculatePrice_Deterministic(t *testing.T) {
	e := NewEngine(DefaultItemRules(), nil)
	ctx := Context{TenantID: "t1", SKU: "A", BasePrice: dec("19.99"), Inventory: 3}

	first := e.CalculatePrice(ctx)
	for i := 0; i < 100; i++ {
		require.True(t, first.Equal(e.CalculatePrice(ctx)))
	}
}

func TestCalculatePrice_OrderMatters(t *testing.T) {
	pctThenFlat := NewEngine([]ItemRule{PercentageOff(dec("0.5")), FlatOff(dec("10"))}, nil)
	flatThenPct := NewEngine([]ItemRule{FlatOff(dec("10")), PercentageOff(dec("0.5"))}, nil)
	ctx := Context{BasePrice: dec("100"), Inventory: 100}

	assert.Equal(t, "40.00", pctThenFlat.CalculatePrice(ctx).StringFixed(2))
	assert.Equal(t, "45.00", flatThenPct.CalculatePrice(ctx).StringFixed(2))
}

func TestCalculatePrice_LowStockSurcharge(t *testing.T) {
	e := NewEngine([]ItemRule{LowStockAdjustment(3, dec("1.50"))}, nil)

	assert.Equal(t, "11.50", e.CalculatePrice(Context{BasePrice: dec("10"), Inventory: 2}).StringFixed(2))
	assert.Equal(t, "10.00", e.CalculatePrice(Context{BasePrice: dec("10"), Inventory: 3}).StringFixed(2))
}

func TestCalculatePrice_NoRules(t *testing.T) {
	e := NewEngine(nil, nil)
	assert.Equal(t, "12.35", e.CalculatePrice(Context{BasePrice: dec("12.345")}).StringFixed(2))
}

func TestNewEngine_CopiesRules(t *testing.T) {
	rules := []ItemRule{FlatOff(dec("1"))}
	e := NewEngine(rules, nil)
	rules[0] = FlatOff(dec("50"))

	assert.Equal(t, "9.00", e.CalculatePrice(Context{BasePrice: dec("10")}).StringFixed(2))

	got := e.ItemRules()
	require.Len(t, got, 1)
	assert.Equal(t, "flat_off(1)", got[0].String())
	got[0] = FlatOff(dec("50"))
	assert.Equal(t, "9.00", e.CalculatePrice(Context{BasePrice: dec("10")}).StringFixed(2))
	assert.Empty(t, e.CartRules())
}

func TestCartDiscount_Default(t *testing.T) {
	e := NewEngine(nil, DefaultCartRules())

	d := e.CartDiscount(CartContext{Subtotal: dec("150.00")})
	assert.Equal(t, "15.00", d.Amount.StringFixed(2))
	assert.Equal(t, "10% Off Order > $100", d.Name)

	d = e.CartDiscount(CartContext{Subtotal: dec("100.00")})
	assert.True(t, d.Amount.IsZero())
	assert.Empty(t, d.Name)
}

func TestCartDiscount_ExclusiveStopsEvaluation(t *testing.T) {
	e := NewEngine(nil, []CartRule{
		OrderValueFlatDiscount(dec("50"), dec("5"), "Five Off"),
		OrderValueDiscount(dec("10"), dec("0.10"), "Ten Percent"),
	})

	d := e.CartDiscount(CartContext{Subtotal: dec("200")})
	assert.Equal(t, "5.00", d.Amount.StringFixed(2))
	assert.Equal(t, "Five Off", d.Name)

	d = e.CartDiscount(CartContext{Subtotal: dec("40")})
	assert.Equal(t, "4.00", d.Amount.StringFixed(2))
	assert.Equal(t, "Ten Percent", d.Name)
}

func TestCartDiscount_Stacking(t *testing.T) {
	e := NewEngine(nil, []CartRule{
		OrderValueFlatDiscount(dec("50"), dec("5"), "Five Off").Stacking(),
		OrderValueDiscount(dec("10"), dec("0.10"), "Ten Percent"),
	})

	d := e.CartDiscount(CartContext{Subtotal: dec("200")})
	assert.Equal(t, "25.00", d.Amount.StringFixed(2))
	assert.Equal(t, "Five Off + Ten Percent", d.Name)
}

func TestCartDiscount_ClampedToSubtotal(t *testing.T) {
	e := NewEngine(nil, []CartRule{OrderValueFlatDiscount(dec("0"), dec("30"), "Big")})

	d := e.CartDiscount(CartContext{Subtotal: dec("12.50")})
	assert.Equal(t, "12.50", d.Amount.StringFixed(2))
}
