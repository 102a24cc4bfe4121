package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ProductFilters) ([]models.Product, int64, error)
	Update(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.Variant) error
	Delete(ctx context.Context, productID uuid.UUID) error
	CountOrderItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	FindVariantsWithProduct(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) ([]models.Variant, error)
}
