package orders

import (
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is a quantity/price pair fed into the totals calculation.
type LineItem struct {
	Quantity  int
	UnitPrice int64
}

// DiscountSpec describes the discount applied to an order. Exactly one of the
// concrete variants is used per calculation.
type DiscountSpec interface {
	discountSpec()
}

// NoDiscount leaves the subtotal untouched.
type NoDiscount struct{}

// CodeDiscount applies a redeemed discount code. MaxAmount, when set, caps
// the computed discount the way the code's max_discount_amount does.
type CodeDiscount struct {
	Code      string
	Type      enums.DiscountType
	Value     decimal.Decimal
	MaxAmount *int64
}

// ManualDiscount applies an operator-entered discount without a code.
type ManualDiscount struct {
	Type  enums.DiscountType
	Value decimal.Decimal
}

func (NoDiscount) discountSpec()     {}
func (CodeDiscount) discountSpec()   {}
func (ManualDiscount) discountSpec() {}

// Totals is the result of a totals calculation. All amounts are integral
// currency units and never negative. LineItemTotals holds the per-line
// quantity times unit price, in input order.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	ShippingFee    int64
	GrandTotal     int64
	LineItemTotals []int64
}

// CalculateTotals computes the money columns for an order from its line items,
// discount, and shipping fee. A percentage discount is rounded half up and the
// discount never exceeds the subtotal. The grand total is floored at zero.
func CalculateTotals(items []LineItem, discount DiscountSpec, shippingFee int64) (Totals, error) {
	if shippingFee < 0 {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee must not be negative")
	}

	var subtotal int64
	lineTotals := make([]int64, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
		if item.UnitPrice < 0 {
			return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "item unit price must not be negative").
				WithDetails(map[string]any{"index": i})
		}
		lineTotal := int64(item.Quantity) * item.UnitPrice
		lineTotals = append(lineTotals, lineTotal)
		subtotal += lineTotal
	}

	discountAmount, err := discountFor(discount, subtotal)
	if err != nil {
		return Totals{}, err
	}

	grand := subtotal - discountAmount + shippingFee
	if grand < 0 {
		grand = 0
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		ShippingFee:    shippingFee,
		GrandTotal:     grand,
		LineItemTotals: lineTotals,
	}, nil
}

func discountFor(spec DiscountSpec, subtotal int64) (int64, error) {
	switch d := spec.(type) {
	case nil, NoDiscount:
		return 0, nil
	case CodeDiscount:
		amount, err := discountAmount(d.Type, d.Value, subtotal)
		if err != nil {
			return 0, err
		}
		if d.MaxAmount != nil {
			if *d.MaxAmount < 0 {
				return 0, pkgerrors.New(pkgerrors.CodeValidation, "discount cap must not be negative")
			}
			if amount > *d.MaxAmount {
				amount = *d.MaxAmount
			}
		}
		return amount, nil
	case ManualDiscount:
		return discountAmount(d.Type, d.Value, subtotal)
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unsupported discount spec")
	}
}

func discountAmount(discountType enums.DiscountType, value decimal.Decimal, subtotal int64) (int64, error) {
	if value.IsNegative() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}

	var amount int64
	switch discountType {
	case enums.DiscountTypePercentage:
		// round half up, then clamp to the subtotal
		amount = decimal.NewFromInt(subtotal).
			Mul(value).
			Div(oneHundred).
			Round(0).
			IntPart()
	case enums.DiscountTypeFixedAmount:
		amount = value.Round(0).IntPart()
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type").
			WithDetails(map[string]any{"discount_type": string(discountType)})
	}

	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount, nil
}
