package deliveries

import (
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

// statusTransitions is the authoritative delivery lifecycle. A failed drop-off
// is not terminal, the trip can be reassigned to another shipper.
var statusTransitions = map[enums.DeliveryStatus][]enums.DeliveryStatus{
	enums.DeliveryStatusPending: {
		enums.DeliveryStatusAssigned,
		enums.DeliveryStatusCancelled,
	},
	enums.DeliveryStatusAssigned: {
		enums.DeliveryStatusPickedUp,
		enums.DeliveryStatusCancelled,
	},
	enums.DeliveryStatusPickedUp: {
		enums.DeliveryStatusInTransit,
		enums.DeliveryStatusFailed,
		enums.DeliveryStatusCancelled,
	},
	enums.DeliveryStatusInTransit: {
		enums.DeliveryStatusDelivered,
		enums.DeliveryStatusFailed,
	},
	enums.DeliveryStatusFailed: {
		enums.DeliveryStatusAssigned,
	},
	enums.DeliveryStatusDelivered: {},
	enums.DeliveryStatusCancelled: {},
}

// NextStatuses returns the statuses a delivery in the given status may move
// to. Delivered and cancelled are terminal and return an empty slice.
func NextStatuses(status enums.DeliveryStatus) ([]enums.DeliveryStatus, error) {
	next, ok := statusTransitions[status]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown delivery status").
			WithDetails(map[string]any{"status": string(status)})
	}
	out := make([]enums.DeliveryStatus, len(next))
	copy(out, next)
	return out, nil
}

// IsValidTransition reports whether a delivery may move from one status to
// another. Unknown statuses and self transitions are never valid.
func IsValidTransition(from, to enums.DeliveryStatus) bool {
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
