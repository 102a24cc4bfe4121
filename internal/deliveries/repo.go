package deliveries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a deliveries repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, delivery *models.DeliveryOrder) (*models.DeliveryOrder, error) {
	if err := r.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return nil, err
	}
	return delivery, nil
}

func (r *repository) FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error) {
	var delivery models.DeliveryOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Shipper").
		Where("id = ?", deliveryID).
		First(&delivery).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters DeliveryFilters) ([]models.DeliveryOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryOrder{})
	if filters.OrderID != nil {
		query = query.Where("order_id = ?", *filters.OrderID)
	}
	if filters.ShipperID != nil {
		query = query.Where("shipper_id = ?", *filters.ShipperID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at < ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []models.DeliveryOrder
	err := query.
		Preload("Items").
		Preload("Shipper").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&deliveries).Error
	if err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

func (r *repository) Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryOrder{}).
		Where("id = ?", deliveryID).
		Updates(updates).Error
}

func (r *repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryOrder{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) AssignedQuantities(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int, error) {
	type row struct {
		OrderItemID uuid.UUID
		Quantity    int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryOrderItem{}).
		Select("delivery_order_items.order_item_id AS order_item_id, SUM(delivery_order_items.quantity) AS quantity").
		Joins("JOIN delivery_orders ON delivery_orders.id = delivery_order_items.delivery_order_id").
		Where("delivery_orders.order_id = ?", orderID).
		Where("delivery_orders.status <> ?", enums.DeliveryStatusCancelled).
		Group("delivery_order_items.order_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	assigned := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		assigned[r.OrderItemID] = r.Quantity
	}
	return assigned, nil
}

func (r *repository) CountOpenForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryOrder{}).
		Where("order_id = ?", orderID).
		Where("status NOT IN ?", []enums.DeliveryStatus{
			enums.DeliveryStatusDelivered,
			enums.DeliveryStatusCancelled,
		}).
		Count(&count).Error
	return count, err
}
