package ingredients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Service defines ingredient stock management.
type Service interface {
	Create(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error)
	Get(ctx context.Context, ingredientID uuid.UUID) (*models.Ingredient, error)
	List(ctx context.Context, params pagination.Params, filters IngredientFilters) ([]models.Ingredient, *pagination.Meta, error)
	Update(ctx context.Context, input UpdateIngredientInput) (*models.Ingredient, error)
	Delete(ctx context.Context, ingredientID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an ingredient service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateIngredientInput) (*models.Ingredient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient unit required")
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check ingredient name")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingredient name already exists").
			WithDetails(map[string]any{"name": name})
	}

	ingredient := &models.Ingredient{
		Name:        name,
		Unit:        strings.TrimSpace(input.Unit),
		Description: input.Description,
	}
	created, err := s.repo.Create(ctx, ingredient)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ingredient")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, ingredientID uuid.UUID) (*models.Ingredient, error) {
	if ingredientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required")
	}
	ingredient, err := s.repo.FindByID(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ingredient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredient")
	}
	return ingredient, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters IngredientFilters) ([]models.Ingredient, *pagination.Meta, error) {
	params = params.Normalize()
	ingredients, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ingredients")
	}
	meta := pagination.NewMeta(params, total)
	return ingredients, &meta, nil
}

func (s *service) Update(ctx context.Context, input UpdateIngredientInput) (*models.Ingredient, error) {
	ingredient, err := s.Get(ctx, input.IngredientID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient name required")
		}
		if !strings.EqualFold(name, ingredient.Name) {
			existing, err := s.repo.FindByName(ctx, name)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check ingredient name")
			}
			if existing != nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingredient name already exists").
					WithDetails(map[string]any{"name": name})
			}
		}
		updates["name"] = name
	}
	if input.Unit != nil {
		if strings.TrimSpace(*input.Unit) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient unit required")
		}
		updates["unit"] = strings.TrimSpace(*input.Unit)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, ingredient.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ingredient")
		}
	}
	return s.Get(ctx, ingredient.ID)
}

// Delete removes an ingredient unless a variant recipe still references it.
func (s *service) Delete(ctx context.Context, ingredientID uuid.UUID) error {
	ingredient, err := s.Get(ctx, ingredientID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountVariantLinks(ctx, ingredient.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check ingredient references")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "ingredient is referenced by product variants").
			WithDetails(map[string]any{"variant_links": count})
	}

	if err := s.repo.Delete(ctx, ingredient.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete ingredient")
	}
	return nil
}
