package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/shippers"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type createShipperRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Phone string  `json:"phone" validate:"required,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type updateShipperRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// ShipperCreate registers a new delivery person.
func ShipperCreate(svc shippers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shippers service unavailable"))
			return
		}

		var payload createShipperRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipper, err := svc.Create(r.Context(), shippers.CreateShipperInput{
			Name:  payload.Name,
			Phone: payload.Phone,
			Email: payload.Email,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, shipper)
	}
}

// ShipperGet loads a single shipper.
func ShipperGet(svc shippers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shippers service unavailable"))
			return
		}

		shipperID, err := validators.PathUUID(chi.URLParam(r, "shipperID"), "shipperID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipper, err := svc.Get(r.Context(), shipperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shipper)
	}
}

// ShipperList returns a filtered, paginated page of shippers.
func ShipperList(svc shippers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shippers service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters shippers.ShipperFilters
		if raw := r.URL.Query().Get("active_only"); raw != "" {
			activeOnly, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").
						WithDetails(map[string]any{"field": "active_only"}))
				return
			}
			filters.ActiveOnly = activeOnly
		}
		filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), 200)

		rows, meta, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Items: rows, Meta: meta})
	}
}

// ShipperUpdate edits an existing shipper.
func ShipperUpdate(svc shippers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shippers service unavailable"))
			return
		}

		shipperID, err := validators.PathUUID(chi.URLParam(r, "shipperID"), "shipperID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateShipperRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipper, err := svc.Update(r.Context(), shippers.UpdateShipperInput{
			ShipperID: shipperID,
			Name:      payload.Name,
			Phone:     payload.Phone,
			Email:     payload.Email,
			IsActive:  payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shipper)
	}
}

// ShipperDeactivate retires a shipper with no open deliveries.
func ShipperDeactivate(svc shippers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shippers service unavailable"))
			return
		}

		shipperID, err := validators.PathUUID(chi.URLParam(r, "shipperID"), "shipperID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), shipperID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}
