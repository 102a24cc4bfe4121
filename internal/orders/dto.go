package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// CreateOrderItemInput is one requested line on a new order.
type CreateOrderItemInput struct {
	VariantID uuid.UUID
	Quantity  int
	Notes     *string
}

// ManualDiscountInput is an operator-entered discount without a code.
type ManualDiscountInput struct {
	Type  enums.DiscountType
	Value string
	Note  *string
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	Items          []CreateOrderItemInput
	DiscountCode   *string
	ManualDiscount *ManualDiscountInput
	ShippingFee    int64
	PaymentMethod  enums.PaymentMethod
	Notes          *string
	ActorUserID    uuid.UUID
}

// UpdateOrderInput carries the editable fields of an existing order. Nil
// pointers leave the stored value untouched; Items, when present, replaces the
// full item list and reprices the order.
type UpdateOrderInput struct {
	OrderID        uuid.UUID
	CustomerName   *string
	CustomerPhone  *string
	CustomerEmail  *string
	Items          []CreateOrderItemInput
	DiscountCode   *string
	ManualDiscount *ManualDiscountInput
	ClearDiscount  bool
	ShippingFee    *int64
	PaymentMethod  *enums.PaymentMethod
	PaymentStatus  *enums.PaymentStatus
	Notes          *string
	ActorUserID    uuid.UUID
}

// UpdateStatusInput moves an order to a new lifecycle status.
type UpdateStatusInput struct {
	OrderID     uuid.UUID
	Status      enums.OrderStatus
	Notes       *string
	ActorUserID uuid.UUID
}

// OrderFilters describe the inputs supported by the orders list.
type OrderFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	ShipperID     *uuid.UUID
	DateFrom      *time.Time
	DateTo        *time.Time
	Query         string
}

// StatisticsInput bounds a statistics query to a date window.
type StatisticsInput struct {
	DateFrom *time.Time
	DateTo   *time.Time
}

// StatusCount is one row of the per-status order breakdown.
type StatusCount struct {
	Status enums.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
}

// DailyStat is one day of order volume and revenue within the queried window.
type DailyStat struct {
	Date       string `json:"date"`
	OrderCount int64  `json:"order_count"`
	Revenue    int64  `json:"revenue"`
}

// Statistics aggregates order volume and revenue for the dashboard. Revenue
// and the average order value cover all non-cancelled orders.
type Statistics struct {
	TotalOrders       int64          `json:"total_orders"`
	Revenue           int64          `json:"revenue"`
	AverageOrderValue int64          `json:"average_order_value"`
	StatusCounts      []StatusCount  `json:"status_counts"`
	RecentOrders      []models.Order `json:"recent_orders"`
	DailyStats        []DailyStat    `json:"daily_stats,omitempty"`
}
