package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/products"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type variantIngredientRequest struct {
	IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
}

type variantRequest struct {
	Name        string                     `json:"name" validate:"required,max=200"`
	Description string                     `json:"description"`
	PrivateNote string                     `json:"private_note"`
	Price       int64                      `json:"price" validate:"gte=0"`
	Ingredients []variantIngredientRequest `json:"ingredients" validate:"omitempty,dive"`
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description"`
	PrivateNote string           `json:"private_note"`
	Variants    []variantRequest `json:"variants" validate:"required,min=1,dive"`
}

type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	PrivateNote *string          `json:"private_note"`
	Variants    []variantRequest `json:"variants" validate:"omitempty,dive"`
}

func variantInputs(reqs []variantRequest) ([]products.VariantInput, error) {
	inputs := make([]products.VariantInput, 0, len(reqs))
	for i, req := range reqs {
		ingredients := make([]products.VariantIngredientInput, 0, len(req.Ingredients))
		for j, link := range req.Ingredients {
			ingredientID, err := uuid.Parse(link.IngredientID)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ingredient id").
					WithDetails(map[string]any{"variant": i, "ingredient": j})
			}
			ingredients = append(ingredients, products.VariantIngredientInput{
				IngredientID: ingredientID,
				Quantity:     link.Quantity,
			})
		}
		inputs = append(inputs, products.VariantInput{
			Name:        req.Name,
			Description: req.Description,
			PrivateNote: req.PrivateNote,
			Price:       req.Price,
			Ingredients: ingredients,
		})
	}
	return inputs, nil
}

// ProductCreate registers a product together with its variants.
func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variants, err := variantInputs(payload.Variants)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), products.CreateProductInput{
			Name:        payload.Name,
			Description: payload.Description,
			PrivateNote: payload.PrivateNote,
			Variants:    variants,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductGet loads a product with variants and ingredient links.
func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := validators.PathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductList returns a paginated page of the catalog.
func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := products.ProductFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}

		rows, meta, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Items: rows, Meta: meta})
	}
}

// ProductUpdate edits a product; a variants payload replaces the full set.
func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := validators.PathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpdateProductInput{
			ProductID:   productID,
			Name:        payload.Name,
			Description: payload.Description,
			PrivateNote: payload.PrivateNote,
		}
		if len(payload.Variants) > 0 {
			variants, err := variantInputs(payload.Variants)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Variants = variants
		}

		product, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product that no order references.
func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := validators.PathUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
