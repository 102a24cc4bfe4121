package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
)

func TestNextStatuses(t *testing.T) {
	cases := []struct {
		status enums.OrderStatus
		want   []enums.OrderStatus
	}{
		{enums.OrderStatusPending, []enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusCancelled}},
		{enums.OrderStatusProcessing, []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusReadyForDelivery, enums.OrderStatusCancelled}},
		{enums.OrderStatusCompleted, []enums.OrderStatus{enums.OrderStatusReadyForDelivery}},
		{enums.OrderStatusReadyForDelivery, []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusCancelled}},
		{enums.OrderStatusCancelled, []enums.OrderStatus{}},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			got, err := NextStatuses(tc.status)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStatusesUnknown(t *testing.T) {
	_, err := NextStatuses(enums.OrderStatus("shipped"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnknownStatus, typed.Code())
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	got, err := NextStatuses(enums.OrderStatusPending)
	require.NoError(t, err)
	got[0] = enums.OrderStatusCancelled

	again, err := NextStatuses(enums.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, again[0])
}

func TestIsValidTransition(t *testing.T) {
	assert.True(t, IsValidTransition(enums.OrderStatusPending, enums.OrderStatusCancelled))
	assert.True(t, IsValidTransition(enums.OrderStatusProcessing, enums.OrderStatusReadyForDelivery))
	assert.True(t, IsValidTransition(enums.OrderStatusCompleted, enums.OrderStatusReadyForDelivery))
	assert.True(t, IsValidTransition(enums.OrderStatusReadyForDelivery, enums.OrderStatusCompleted))

	assert.False(t, IsValidTransition(enums.OrderStatusCompleted, enums.OrderStatusPending))
	assert.False(t, IsValidTransition(enums.OrderStatusPending, enums.OrderStatusCompleted))
	assert.False(t, IsValidTransition(enums.OrderStatus("shipped"), enums.OrderStatusPending))
	assert.False(t, IsValidTransition(enums.OrderStatusPending, enums.OrderStatus("shipped")))
}

func TestNoSelfTransitions(t *testing.T) {
	for _, status := range allOrderStatuses() {
		assert.False(t, IsValidTransition(status, status), "self transition allowed for %s", status)
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	for _, status := range allOrderStatuses() {
		assert.False(t, IsValidTransition(enums.OrderStatusCancelled, status), "cancelled may not move to %s", status)
	}
}

func allOrderStatuses() []enums.OrderStatus {
	return []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusProcessing,
		enums.OrderStatusCompleted,
		enums.OrderStatusReadyForDelivery,
		enums.OrderStatusCancelled,
	}
}
