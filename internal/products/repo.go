package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.Ingredients").
		Preload("Variants.Ingredients.Ingredient").
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ProductFilters) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.
		Preload("Variants").
		Order("name ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) Update(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error
}

func (r *repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.Variant) error {
	var variantIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("product_id = ?", productID).
		Pluck("id", &variantIDs).Error; err != nil {
		return err
	}
	if len(variantIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("variant_id IN ?", variantIDs).
			Delete(&models.VariantIngredient{}).Error; err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).
			Where("product_id = ?", productID).
			Delete(&models.Variant{}).Error; err != nil {
			return err
		}
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
	}
	return r.db.WithContext(ctx).Create(&variants).Error
}

func (r *repository) Delete(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&models.Product{}).Error
}

// CountOrderItemsForProduct reports how many order lines reference any of the
// product's variants.
func (r *repository) CountOrderItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("variant_id IN (?)", r.db.Model(&models.Variant{}).
			Select("id").
			Where("product_id = ?", productID)).
		Count(&count).Error
	return count, err
}

func (r *repository) FindVariantsWithProduct(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) ([]models.Variant, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var variants []models.Variant
	err := db.WithContext(ctx).
		Preload("Product").
		Where("id IN ?", variantIDs).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}
