package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

func sampleItems() []LineItem {
	return []LineItem{
		{Quantity: 2, UnitPrice: 25000},
		{Quantity: 1, UnitPrice: 35000},
	}
}

func TestCalculateTotalsNoDiscount(t *testing.T) {
	totals, err := CalculateTotals(sampleItems(), NoDiscount{}, 15000)
	require.NoError(t, err)

	assert.Equal(t, int64(85000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.DiscountAmount)
	assert.Equal(t, int64(15000), totals.ShippingFee)
	assert.Equal(t, int64(100000), totals.GrandTotal)
	assert.Equal(t, []int64{50000, 35000}, totals.LineItemTotals)
}

func TestCalculateTotalsNilDiscount(t *testing.T) {
	totals, err := CalculateTotals(sampleItems(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(85000), totals.GrandTotal)
}

func TestCalculateTotalsPercentageDiscount(t *testing.T) {
	discount := ManualDiscount{
		Type:  enums.DiscountTypePercentage,
		Value: decimal.NewFromInt(10),
	}
	totals, err := CalculateTotals(sampleItems(), discount, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(85000), totals.Subtotal)
	assert.Equal(t, int64(8500), totals.DiscountAmount)
	assert.Equal(t, int64(76500), totals.GrandTotal)
}

func TestCalculateTotalsPercentageRoundsHalfUp(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: 1001}}
	discount := ManualDiscount{
		Type:  enums.DiscountTypePercentage,
		Value: decimal.NewFromFloat(2.5),
	}
	// 1001 * 2.5% = 25.025 -> 25; 999 * 2.5% = 24.975 -> 25
	totals, err := CalculateTotals(items, discount, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(25), totals.DiscountAmount)

	totals, err = CalculateTotals([]LineItem{{Quantity: 1, UnitPrice: 999}}, discount, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(25), totals.DiscountAmount)

	// exact half: 1000 * 2.25% = 22.5 -> 23
	totals, err = CalculateTotals([]LineItem{{Quantity: 1, UnitPrice: 1000}}, ManualDiscount{
		Type:  enums.DiscountTypePercentage,
		Value: decimal.NewFromFloat(2.25),
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(23), totals.DiscountAmount)
}

func TestCalculateTotalsPercentageClampedToSubtotal(t *testing.T) {
	discount := ManualDiscount{
		Type:  enums.DiscountTypePercentage,
		Value: decimal.NewFromInt(150),
	}
	totals, err := CalculateTotals(sampleItems(), discount, 2000)
	require.NoError(t, err)

	assert.Equal(t, int64(85000), totals.DiscountAmount)
	assert.Equal(t, int64(2000), totals.GrandTotal)
}

func TestCalculateTotalsFixedAmountDiscount(t *testing.T) {
	discount := CodeDiscount{
		Code:  "WELCOME",
		Type:  enums.DiscountTypeFixedAmount,
		Value: decimal.NewFromInt(20000),
	}
	totals, err := CalculateTotals(sampleItems(), discount, 15000)
	require.NoError(t, err)

	assert.Equal(t, int64(20000), totals.DiscountAmount)
	assert.Equal(t, int64(80000), totals.GrandTotal)
}

func TestCalculateTotalsFixedAmountClampedToSubtotal(t *testing.T) {
	discount := CodeDiscount{
		Code:  "BIGSPENDER",
		Type:  enums.DiscountTypeFixedAmount,
		Value: decimal.NewFromInt(200000),
	}
	totals, err := CalculateTotals(sampleItems(), discount, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(85000), totals.DiscountAmount)
	assert.Equal(t, int64(0), totals.GrandTotal)
}

func TestCalculateTotalsCodeDiscountCap(t *testing.T) {
	maxAmount := int64(5000)
	discount := CodeDiscount{
		Code:      "SAVE10",
		Type:      enums.DiscountTypePercentage,
		Value:     decimal.NewFromInt(10),
		MaxAmount: &maxAmount,
	}
	totals, err := CalculateTotals(sampleItems(), discount, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(5000), totals.DiscountAmount)
	assert.Equal(t, int64(80000), totals.GrandTotal)
}

func TestCalculateTotalsEmptyItems(t *testing.T) {
	totals, err := CalculateTotals(nil, NoDiscount{}, 5000)
	require.NoError(t, err)

	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(5000), totals.GrandTotal)
}

func TestCalculateTotalsRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		items    []LineItem
		discount DiscountSpec
		fee      int64
	}{
		{"zero quantity", []LineItem{{Quantity: 0, UnitPrice: 100}}, NoDiscount{}, 0},
		{"negative quantity", []LineItem{{Quantity: -1, UnitPrice: 100}}, NoDiscount{}, 0},
		{"negative price", []LineItem{{Quantity: 1, UnitPrice: -100}}, NoDiscount{}, 0},
		{"negative fee", sampleItems(), NoDiscount{}, -1},
		{"negative discount value", sampleItems(), ManualDiscount{Type: enums.DiscountTypePercentage, Value: decimal.NewFromInt(-10)}, 0},
		{"unknown discount type", sampleItems(), ManualDiscount{Type: enums.DiscountType("loyalty"), Value: decimal.NewFromInt(10)}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateTotals(tc.items, tc.discount, tc.fee)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}
