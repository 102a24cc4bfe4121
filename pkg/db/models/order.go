package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// Order is a customer purchase record. All monetary columns hold integral
// units of currency; totals are recomputed server-side on every write.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string              `gorm:"column:order_number;uniqueIndex;not null" json:"order_number"`
	CustomerID     *uuid.UUID          `gorm:"column:customer_id;type:uuid;index" json:"customer_id,omitempty"`
	CustomerName   string              `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null" json:"customer_phone"`
	CustomerEmail  string              `gorm:"column:customer_email" json:"customer_email"`
	Status         enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	Subtotal       int64               `gorm:"column:subtotal;not null" json:"subtotal"`
	DiscountAmount int64               `gorm:"column:discount_amount;not null;default:0" json:"discount_amount"`
	DiscountType   *enums.DiscountType `gorm:"column:discount_type;type:text" json:"discount_type,omitempty"`
	DiscountCode   *string             `gorm:"column:discount_code" json:"discount_code,omitempty"`
	DiscountNote   *string             `gorm:"column:discount_note" json:"discount_note,omitempty"`
	ShippingFee    int64               `gorm:"column:shipping_fee;not null;default:0" json:"shipping_fee"`
	TotalAmount    int64               `gorm:"column:total_amount;not null" json:"total_amount"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method" json:"payment_method"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"payment_status"`
	Notes          *string             `gorm:"column:notes" json:"notes,omitempty"`

	ShipperID             *uuid.UUID           `gorm:"column:shipper_id;type:uuid;index" json:"shipper_id,omitempty"`
	DeliveryStatus        enums.DeliveryStatus `gorm:"column:delivery_status;type:text;not null;default:'pending'" json:"delivery_status"`
	EstimatedDeliveryTime *time.Time           `gorm:"column:estimated_delivery_time" json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time           `gorm:"column:actual_delivery_time" json:"actual_delivery_time,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	UpdatedBy uuid.UUID `gorm:"column:updated_by;type:uuid;not null" json:"updated_by"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
	Shipper       *Shipper             `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"`
	Customer      *User                `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// OrderItem snapshots one variant within an order. Product and variant names
// are denormalized so later catalog edits do not rewrite order history.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	VariantID   uuid.UUID  `gorm:"column:variant_id;type:uuid;not null" json:"variant_id"`
	ProductName string     `gorm:"column:product_name;not null" json:"product_name"`
	VariantName string     `gorm:"column:variant_name;not null" json:"variant_name"`
	Quantity    int        `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice   int64      `gorm:"column:unit_price;not null" json:"unit_price"`
	TotalPrice  int64      `gorm:"column:total_price;not null" json:"total_price"`
	Notes       *string    `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// OrderStatusHistory is the append-only audit trail of status transitions.
type OrderStatusHistory struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index" json:"-"`
	Status         enums.OrderStatus  `gorm:"column:status;type:text;not null" json:"status"`
	PreviousStatus *enums.OrderStatus `gorm:"column:previous_status;type:text" json:"previous_status,omitempty"`
	Notes          *string            `gorm:"column:notes" json:"notes,omitempty"`
	ChangedBy      uuid.UUID          `gorm:"column:changed_by;type:uuid;not null" json:"changed_by"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
