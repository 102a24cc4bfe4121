package discounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// CreateDiscountCodeInput carries the fields for a new discount code.
type CreateDiscountCodeInput struct {
	Code              string
	Name              string
	Description       string
	DiscountType      enums.DiscountType
	DiscountValue     decimal.Decimal
	MinOrderAmount    int64
	MaxDiscountAmount *int64
	UsageLimit        *int
	ValidFrom         time.Time
	ValidUntil        time.Time
	ActorUserID       uuid.UUID
}

// UpdateDiscountCodeInput carries the editable fields of a discount code.
// Nil pointers leave the stored value untouched.
type UpdateDiscountCodeInput struct {
	CodeID            uuid.UUID
	Name              *string
	Description       *string
	DiscountType      *enums.DiscountType
	DiscountValue     *decimal.Decimal
	MinOrderAmount    *int64
	MaxDiscountAmount *int64
	UsageLimit        *int
	IsActive          *bool
	ValidFrom         *time.Time
	ValidUntil        *time.Time
}

// DiscountCodeFilters describe the inputs supported by the list operation.
type DiscountCodeFilters struct {
	IsActive *bool
	Query    string
}

// Redemption is the outcome of resolving a discount code against an order
// subtotal. The amount itself is computed by the order totals calculation.
type Redemption struct {
	CodeID    uuid.UUID
	Code      string
	Type      enums.DiscountType
	Value     decimal.Decimal
	MaxAmount *int64
}
