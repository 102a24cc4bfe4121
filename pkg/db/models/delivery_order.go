package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// DeliveryOrder is one shipper trip for an order. A split order produces
// several delivery orders covering disjoint subsets of its items.
type DeliveryOrder struct {
	ID                    uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID               uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	ShipperID             *uuid.UUID           `gorm:"column:shipper_id;type:uuid;index" json:"shipper_id,omitempty"`
	DeliveryNumber        string               `gorm:"column:delivery_number;uniqueIndex;not null" json:"delivery_number"`
	Status                enums.DeliveryStatus `gorm:"column:status;type:text;not null;default:'pending';index" json:"status"`
	EstimatedDeliveryTime *time.Time           `gorm:"column:estimated_delivery_time" json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time           `gorm:"column:actual_delivery_time" json:"actual_delivery_time,omitempty"`
	Notes                 *string              `gorm:"column:notes" json:"notes,omitempty"`
	CreatedBy             uuid.UUID            `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	UpdatedBy             uuid.UUID            `gorm:"column:updated_by;type:uuid;not null" json:"updated_by"`

	Items   []DeliveryOrderItem `gorm:"foreignKey:DeliveryOrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Shipper *Shipper            `gorm:"foreignKey:ShipperID" json:"shipper,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// DeliveryOrderItem maps an order item (or part of its quantity) to a trip.
type DeliveryOrderItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeliveryOrderID uuid.UUID `gorm:"column:delivery_order_id;type:uuid;not null;index" json:"-"`
	OrderItemID     uuid.UUID `gorm:"column:order_item_id;type:uuid;not null" json:"order_item_id"`
	Quantity        int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
