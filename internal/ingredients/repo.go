package ingredients

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed ingredient repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (r *repository) FindByID(ctx context.Context, ingredientID uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Where("id = ?", ingredientID).
		First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters IngredientFilters) ([]models.Ingredient, int64, error) {
	params = params.Normalize()
	query := r.db.WithContext(ctx).Model(&models.Ingredient{})
	if filters.Query != "" {
		query = query.Where("name LIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ingredients []models.Ingredient
	err := query.
		Order("name ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&ingredients).Error
	if err != nil {
		return nil, 0, err
	}
	return ingredients, total, nil
}

func (r *repository) Update(ctx context.Context, ingredientID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, ingredientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", ingredientID).
		Delete(&models.Ingredient{}).Error
}

func (r *repository) CountVariantLinks(ctx context.Context, ingredientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VariantIngredient{}).
		Where("ingredient_id = ?", ingredientID).
		Count(&count).Error
	return count, err
}
