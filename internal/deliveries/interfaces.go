package deliveries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for delivery orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, delivery *models.DeliveryOrder) (*models.DeliveryOrder, error)
	FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error)
	List(ctx context.Context, params pagination.Params, filters DeliveryFilters) ([]models.DeliveryOrder, int64, error)
	Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	// AssignedQuantities sums item quantities already booked on non-cancelled
	// deliveries of an order, keyed by order item id.
	AssignedQuantities(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int, error)
	CountOpenForOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}
