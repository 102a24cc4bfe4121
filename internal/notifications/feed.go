package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	redisclient "github.com/minhvu-dev/foodpos-backend/pkg/redis"
)

// Event types carried on the live order feed.
const (
	EventOrderCreated       = "order.created"
	EventOrderUpdated       = "order.updated"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published for dashboard subscribers.
type OrderEvent struct {
	Type        string            `json:"type"`
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      enums.OrderStatus `json:"status"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Feed pushes order events to the configured Redis channel. Publishing is
// best effort; a failed publish never fails the underlying write.
type Feed struct {
	client  publisher
	channel string
	logg    *logger.Logger
}

// NewFeed builds the live order feed publisher.
func NewFeed(client *redisclient.Client, cfg config.FeedConfig, logg *logger.Logger) (*Feed, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if cfg.OrdersChannel == "" {
		return nil, fmt.Errorf("orders channel required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Feed{
		client:  client,
		channel: cfg.OrdersChannel,
		logg:    logg,
	}, nil
}

// OrderUpdated publishes the event, stamping OccurredAt when unset.
func (f *Feed) OrderUpdated(ctx context.Context, event OrderEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		f.logg.Error(ctx, "marshal order feed event", err)
		return
	}
	if err := f.client.Publish(ctx, f.channel, payload); err != nil {
		ctx = f.logg.WithFields(ctx, map[string]any{
			"order_id": event.OrderID.String(),
			"type":     event.Type,
		})
		f.logg.Error(ctx, "publish order feed event", err)
	}
}
