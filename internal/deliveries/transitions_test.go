package deliveries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

func allDeliveryStatuses() []enums.DeliveryStatus {
	return []enums.DeliveryStatus{
		enums.DeliveryStatusPending,
		enums.DeliveryStatusAssigned,
		enums.DeliveryStatusPickedUp,
		enums.DeliveryStatusInTransit,
		enums.DeliveryStatusDelivered,
		enums.DeliveryStatusFailed,
		enums.DeliveryStatusCancelled,
	}
}

func TestDeliveryTransitions(t *testing.T) {
	assert.True(t, IsValidTransition(enums.DeliveryStatusPending, enums.DeliveryStatusAssigned))
	assert.True(t, IsValidTransition(enums.DeliveryStatusAssigned, enums.DeliveryStatusPickedUp))
	assert.True(t, IsValidTransition(enums.DeliveryStatusPickedUp, enums.DeliveryStatusInTransit))
	assert.True(t, IsValidTransition(enums.DeliveryStatusInTransit, enums.DeliveryStatusDelivered))
	assert.True(t, IsValidTransition(enums.DeliveryStatusInTransit, enums.DeliveryStatusFailed))
	assert.True(t, IsValidTransition(enums.DeliveryStatusFailed, enums.DeliveryStatusAssigned))

	assert.False(t, IsValidTransition(enums.DeliveryStatusPending, enums.DeliveryStatusDelivered))
	assert.False(t, IsValidTransition(enums.DeliveryStatusAssigned, enums.DeliveryStatusInTransit))
	assert.False(t, IsValidTransition(enums.DeliveryStatusDelivered, enums.DeliveryStatusFailed))
}

func TestDeliveryTerminalStatuses(t *testing.T) {
	for _, terminal := range []enums.DeliveryStatus{
		enums.DeliveryStatusDelivered,
		enums.DeliveryStatusCancelled,
	} {
		next, err := NextStatuses(terminal)
		require.NoError(t, err)
		assert.Empty(t, next, "status %s", terminal)
	}
}

func TestDeliveryNoSelfTransitions(t *testing.T) {
	for _, status := range allDeliveryStatuses() {
		assert.False(t, IsValidTransition(status, status), "status %s", status)
	}
}

func TestDeliveryNextStatusesUnknown(t *testing.T) {
	_, err := NextStatuses(enums.DeliveryStatus("teleported"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnknownStatus, typed.Code())
}
