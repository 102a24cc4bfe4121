package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/ingredients"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type createIngredientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Unit        string `json:"unit" validate:"required,max=50"`
	Description string `json:"description"`
}

type updateIngredientRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Unit        *string `json:"unit" validate:"omitempty,max=50"`
	Description *string `json:"description"`
}

// IngredientCreate registers a new stock item.
func IngredientCreate(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		var payload createIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Create(r.Context(), ingredients.CreateIngredientInput{
			Name:        payload.Name,
			Unit:        payload.Unit,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ingredient)
	}
}

// IngredientGet loads a single ingredient.
func IngredientGet(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		ingredientID, err := validators.PathUUID(chi.URLParam(r, "ingredientID"), "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Get(r.Context(), ingredientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ingredient)
	}
}

// IngredientList returns a paginated page of ingredients.
func IngredientList(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := ingredients.IngredientFilters{
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

// IngredientUpdate edits an existing ingredient.
func IngredientUpdate(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		ingredientID, err := validators.PathUUID(chi.URLParam(r, "ingredientID"), "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateIngredientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Update(r.Context(), ingredients.UpdateIngredientInput{
			IngredientID: ingredientID,
			Name:         payload.Name,
			Unit:         payload.Unit,
			Description:  payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ingredient)
	}
}

// IngredientDelete removes an ingredient that no variant references.
func IngredientDelete(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		ingredientID, err := validators.PathUUID(chi.URLParam(r, "ingredientID"), "ingredientID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), ingredientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
