package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/api/middleware"
	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/deliveries"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type deliveryItemRequest struct {
	OrderItemID string `json:"order_item_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type createDeliveryRequest struct {
	OrderID               string                `json:"order_id" validate:"required,uuid"`
	ShipperID             *string               `json:"shipper_id" validate:"omitempty,uuid"`
	Items                 []deliveryItemRequest `json:"items" validate:"omitempty,dive"`
	EstimatedDeliveryTime *time.Time            `json:"estimated_delivery_time"`
	Notes                 *string               `json:"notes"`
}

type updateDeliveryStatusRequest struct {
	Status    string  `json:"status" validate:"required"`
	ShipperID *string `json:"shipper_id" validate:"omitempty,uuid"`
	Notes     *string `json:"notes"`
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid uuid").
			WithDetails(map[string]any{"field": field})
	}
	return &id, nil
}

// DeliveryCreate opens a delivery trip for all or part of an order.
func DeliveryCreate(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		var payload createDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}
		shipperID, err := parseOptionalUUID(payload.ShipperID, "shipper_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]deliveries.DeliveryItemInput, 0, len(payload.Items))
		for i, item := range payload.Items {
			orderItemID, err := uuid.Parse(item.OrderItemID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "invalid order item id").
						WithDetails(map[string]any{"index": i}))
				return
			}
			items = append(items, deliveries.DeliveryItemInput{
				OrderItemID: orderItemID,
				Quantity:    item.Quantity,
			})
		}

		delivery, err := svc.Create(r.Context(), deliveries.CreateDeliveryInput{
			OrderID:               orderID,
			ShipperID:             shipperID,
			Items:                 items,
			EstimatedDeliveryTime: payload.EstimatedDeliveryTime,
			Notes:                 payload.Notes,
			ActorID:               middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, delivery)
	}
}

// DeliveryGet loads a delivery trip with its items and shipper.
func DeliveryGet(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		deliveryID, err := validators.PathUUID(chi.URLParam(r, "deliveryID"), "deliveryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.Get(r.Context(), deliveryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, delivery)
	}
}

// DeliveryList returns a filtered, paginated page of delivery trips.
func DeliveryList(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters deliveries.DeliveryFilters

		filters.OrderID, err = validators.ParseQueryUUID(r, "order_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ShipperID, err = validators.ParseQueryUUID(r, "shipper_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := enums.DeliveryStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown delivery status").
						WithDetails(map[string]any{"status": raw}))
				return
			}
			filters.Status = &status
		}
		filters.DateFrom, err = validators.ParseQueryDate(r, "date_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.DateTo, err = validators.ParseQueryDate(r, "date_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, meta, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Items: rows, Meta: meta})
	}
}

// DeliveryUpdateStatus moves a delivery along its lifecycle; assigning
// requires a shipper.
func DeliveryUpdateStatus(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		deliveryID, err := validators.PathUUID(chi.URLParam(r, "deliveryID"), "deliveryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDeliveryStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipperID, err := parseOptionalUUID(payload.ShipperID, "shipper_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.UpdateStatus(r.Context(), deliveries.UpdateStatusInput{
			DeliveryID: deliveryID,
			Status:     enums.DeliveryStatus(payload.Status),
			ShipperID:  shipperID,
			Notes:      payload.Notes,
			ActorID:    middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, delivery)
	}
}

// DeliveryAllowedStatuses lists the statuses a delivery can move to next.
func DeliveryAllowedStatuses(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		deliveryID, err := validators.PathUUID(chi.URLParam(r, "deliveryID"), "deliveryID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		allowed, err := svc.AllowedNextStatuses(r.Context(), deliveryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"allowed": allowed})
	}
}

type assignShipperRequest struct {
	ShipperID             string     `json:"shipper_id" validate:"required,uuid"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	Notes                 *string    `json:"notes"`
}

// OrderAssignShipper opens a delivery trip for the order with the shipper
// assigned up front. The trip covers the order's full item set.
func OrderAssignShipper(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignShipperRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipperID, err := uuid.Parse(payload.ShipperID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "invalid shipper id"))
			return
		}

		delivery, err := svc.Create(r.Context(), deliveries.CreateDeliveryInput{
			OrderID:               orderID,
			ShipperID:             &shipperID,
			EstimatedDeliveryTime: payload.EstimatedDeliveryTime,
			Notes:                 payload.Notes,
			ActorID:               middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, delivery)
	}
}
