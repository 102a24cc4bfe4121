package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// DiscountCode is a redeemable promotion. DiscountValue holds a percentage
// with at most one fractional digit or a fixed currency amount, depending on
// DiscountType.
type DiscountCode struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code              string             `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Name              string             `gorm:"column:name;not null" json:"name"`
	Description       string             `gorm:"column:description" json:"description"`
	DiscountType      enums.DiscountType `gorm:"column:discount_type;type:text;not null" json:"discount_type"`
	DiscountValue     decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,1);not null" json:"discount_value"`
	MinOrderAmount    int64              `gorm:"column:min_order_amount;not null;default:0" json:"min_order_amount"`
	MaxDiscountAmount *int64             `gorm:"column:max_discount_amount" json:"max_discount_amount,omitempty"`
	UsageLimit        *int               `gorm:"column:usage_limit" json:"usage_limit,omitempty"`
	UsedCount         int                `gorm:"column:used_count;not null;default:0" json:"used_count"`
	IsActive          bool               `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ValidFrom         time.Time          `gorm:"column:valid_from;not null" json:"valid_from"`
	ValidUntil        time.Time          `gorm:"column:valid_until;not null" json:"valid_until"`
	CreatedBy         uuid.UUID          `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
