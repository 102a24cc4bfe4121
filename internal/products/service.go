package products

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines product catalog management.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Get(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, params pagination.Params, filters ProductFilters) ([]models.Product, *pagination.Meta, error)
	Update(ctx context.Context, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if len(input.Variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product needs at least one variant")
	}
	variants, err := buildVariants(input.Variants)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PrivateNote: input.PrivateNote,
		Variants:    variants,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ProductFilters) ([]models.Product, *pagination.Meta, error) {
	params = params.Normalize()
	products, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	meta := pagination.NewMeta(params, total)
	return products, &meta, nil
}

func (s *service) Update(ctx context.Context, input UpdateProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PrivateNote != nil {
		updates["private_note"] = *input.PrivateNote
	}

	var variants []models.Variant
	if len(input.Variants) > 0 {
		variants, err = buildVariants(input.Variants)
		if err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(updates) > 0 {
			if err := repo.Update(ctx, product.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
			}
		}
		if len(variants) > 0 {
			if err := repo.ReplaceVariants(ctx, product.ID, variants); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace variants")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// Delete removes a product unless an order already references one of its
// variants.
func (s *service) Delete(ctx context.Context, productID uuid.UUID) error {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}

	count, err := s.repo.CountOrderItemsForProduct(ctx, product.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product references")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by existing orders").
			WithDetails(map[string]any{"order_items": count})
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func buildVariants(inputs []VariantInput) ([]models.Variant, error) {
	variants := make([]models.Variant, 0, len(inputs))
	for i, input := range inputs {
		if strings.TrimSpace(input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant name required").
				WithDetails(map[string]any{"index": i})
		}
		if input.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant price must not be negative").
				WithDetails(map[string]any{"index": i})
		}
		links := make([]models.VariantIngredient, 0, len(input.Ingredients))
		for j, link := range input.Ingredients {
			if link.IngredientID == uuid.Nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient id required").
					WithDetails(map[string]any{"variant": i, "ingredient": j})
			}
			if link.Quantity <= 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "ingredient quantity must be positive").
					WithDetails(map[string]any{"variant": i, "ingredient": j})
			}
			links = append(links, models.VariantIngredient{
				IngredientID: link.IngredientID,
				Quantity:     link.Quantity,
			})
		}
		variants = append(variants, models.Variant{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			PrivateNote: input.PrivateNote,
			Price:       input.Price,
			Ingredients: links,
		})
	}
	return variants, nil
}
