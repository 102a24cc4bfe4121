package shippers

import "github.com/google/uuid"

// CreateShipperInput carries the fields for a new delivery person.
type CreateShipperInput struct {
	Name  string
	Phone string
	Email *string
}

// UpdateShipperInput carries the editable fields of a shipper. Nil pointers
// leave the stored value untouched.
type UpdateShipperInput struct {
	ShipperID uuid.UUID
	Name      *string
	Phone     *string
	Email     *string
	IsActive  *bool
}

// ShipperFilters describe the inputs supported by the shipper list.
type ShipperFilters struct {
	ActiveOnly bool
	Query      string
}
