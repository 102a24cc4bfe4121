package orders

import (
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

// statusTransitions is the authoritative order lifecycle. An order that is
// completed may still be handed to a shipper, and one out for delivery may be
// marked completed on handover or cancelled on a failed drop-off.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusProcessing,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusProcessing: {
		enums.OrderStatusCompleted,
		enums.OrderStatusReadyForDelivery,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusCompleted: {
		enums.OrderStatusReadyForDelivery,
	},
	enums.OrderStatusReadyForDelivery: {
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusCancelled: {},
}

// NextStatuses returns the statuses an order in the given status may move to.
// Cancelled is terminal and returns an empty slice.
func NextStatuses(status enums.OrderStatus) ([]enums.OrderStatus, error) {
	next, ok := statusTransitions[status]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown order status").
			WithDetails(map[string]any{"status": string(status)})
	}
	out := make([]enums.OrderStatus, len(next))
	copy(out, next)
	return out, nil
}

// IsValidTransition reports whether an order may move from one status to
// another. Unknown statuses and self transitions are never valid.
func IsValidTransition(from, to enums.OrderStatus) bool {
	next, ok := statusTransitions[from]
	if !ok {
		return false
	}
	for _, candidate := range next {
		if candidate == to {
			return true
		}
	}
	return false
}
