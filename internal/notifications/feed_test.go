package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type stubPublisher struct {
	channel  string
	payloads [][]byte
	err      error
}

func (s *stubPublisher) Publish(ctx context.Context, channel string, payload any) error {
	if s.err != nil {
		return s.err
	}
	s.channel = channel
	s.payloads = append(s.payloads, payload.([]byte))
	return nil
}

func newTestFeed(client publisher) *Feed {
	return &Feed{
		client:  client,
		channel: "foodpos:orders:feed",
		logg:    logger.New(logger.Options{ServiceName: "test"}),
	}
}

func TestOrderUpdatedPublishesEvent(t *testing.T) {
	stub := &stubPublisher{}
	feed := newTestFeed(stub)

	orderID := uuid.New()
	feed.OrderUpdated(context.Background(), OrderEvent{
		Type:        EventOrderStatusChanged,
		OrderID:     orderID,
		OrderNumber: "ORD-20260110-0001",
		Status:      enums.OrderStatusProcessing,
	})

	require.Len(t, stub.payloads, 1)
	assert.Equal(t, "foodpos:orders:feed", stub.channel)

	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(stub.payloads[0], &decoded))
	assert.Equal(t, EventOrderStatusChanged, decoded.Type)
	assert.Equal(t, orderID, decoded.OrderID)
	assert.Equal(t, enums.OrderStatusProcessing, decoded.Status)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestOrderUpdatedSwallowsPublishErrors(t *testing.T) {
	stub := &stubPublisher{err: errors.New("connection refused")}
	feed := newTestFeed(stub)

	feed.OrderUpdated(context.Background(), OrderEvent{
		Type:    EventOrderCreated,
		OrderID: uuid.New(),
	})
}
