package shippers

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for shippers.
type Repository interface {
	Create(ctx context.Context, shipper *models.Shipper) (*models.Shipper, error)
	FindByID(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error)
	List(ctx context.Context, params pagination.Params, filters ShipperFilters) ([]models.Shipper, int64, error)
	Update(ctx context.Context, shipperID uuid.UUID, updates map[string]any) error
	CountOpenDeliveries(ctx context.Context, shipperID uuid.UUID) (int64, error)
}
