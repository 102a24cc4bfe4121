package ingredients

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for kitchen ingredients.
type Repository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	FindByID(ctx context.Context, ingredientID uuid.UUID) (*models.Ingredient, error)
	FindByName(ctx context.Context, name string) (*models.Ingredient, error)
	List(ctx context.Context, params pagination.Params, filters IngredientFilters) ([]models.Ingredient, int64, error)
	Update(ctx context.Context, ingredientID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, ingredientID uuid.UUID) error
	CountVariantLinks(ctx context.Context, ingredientID uuid.UUID) (int64, error)
}
