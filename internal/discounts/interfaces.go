package discounts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for discount codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	FindByID(ctx context.Context, codeID uuid.UUID) (*models.DiscountCode, error)
	FindByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	List(ctx context.Context, params pagination.Params, filters DiscountCodeFilters) ([]models.DiscountCode, int64, error)
	Update(ctx context.Context, codeID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, codeID uuid.UUID) error
	IncrementUsage(ctx context.Context, codeID uuid.UUID) (bool, error)
}
