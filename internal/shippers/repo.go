package shippers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed shipper repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, shipper *models.Shipper) (*models.Shipper, error) {
	if err := r.db.WithContext(ctx).Create(shipper).Error; err != nil {
		return nil, err
	}
	return shipper, nil
}

func (r *repository) FindByID(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error) {
	var shipper models.Shipper
	err := r.db.WithContext(ctx).
		Where("id = ?", shipperID).
		First(&shipper).Error
	if err != nil {
		return nil, err
	}
	return &shipper, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ShipperFilters) ([]models.Shipper, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Shipper{})
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shippers []models.Shipper
	err := query.
		Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&shippers).Error
	if err != nil {
		return nil, 0, err
	}
	return shippers, total, nil
}

func (r *repository) Update(ctx context.Context, shipperID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Shipper{}).
		Where("id = ?", shipperID).
		Updates(updates).Error
}

func (r *repository) CountOpenDeliveries(ctx context.Context, shipperID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DeliveryOrder{}).
		Where("shipper_id = ?", shipperID).
		Where("status NOT IN ?", []enums.DeliveryStatus{
			enums.DeliveryStatusDelivered,
			enums.DeliveryStatusCancelled,
		}).
		Count(&count).Error
	return count, err
}
