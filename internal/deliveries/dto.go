package deliveries

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// DeliveryItemInput maps one order item (or part of its quantity) onto a trip.
type DeliveryItemInput struct {
	OrderItemID uuid.UUID
	Quantity    int
}

// CreateDeliveryInput carries the fields for a new delivery trip. Items may
// cover a subset of the order so one order can be split across trips.
type CreateDeliveryInput struct {
	OrderID               uuid.UUID
	ShipperID             *uuid.UUID
	Items                 []DeliveryItemInput
	EstimatedDeliveryTime *time.Time
	Notes                 *string
	ActorID               uuid.UUID
}

// UpdateStatusInput moves a delivery to a new lifecycle status.
type UpdateStatusInput struct {
	DeliveryID uuid.UUID
	Status     enums.DeliveryStatus
	ShipperID  *uuid.UUID
	Notes      *string
	ActorID    uuid.UUID
}

// DeliveryFilters describe the inputs supported by the delivery list.
type DeliveryFilters struct {
	OrderID   *uuid.UUID
	ShipperID *uuid.UUID
	Status    *enums.DeliveryStatus
	DateFrom  *time.Time
	DateTo    *time.Time
}
