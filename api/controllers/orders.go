package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/api/middleware"
	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/orders"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// listPayload is the shared list response body: the page of rows plus
// pagination metadata.
type listPayload struct {
	Items any              `json:"items"`
	Meta  *pagination.Meta `json:"meta"`
}

type orderItemRequest struct {
	VariantID string  `json:"variant_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Notes     *string `json:"notes"`
}

type manualDiscountRequest struct {
	Type  string  `json:"type" validate:"required,oneof=percentage fixed_amount"`
	Value string  `json:"value" validate:"required"`
	Note  *string `json:"note"`
}

type createOrderRequest struct {
	CustomerName   string                 `json:"customer_name" validate:"required,max=200"`
	CustomerPhone  string                 `json:"customer_phone" validate:"required,max=30"`
	CustomerEmail  string                 `json:"customer_email" validate:"omitempty,email"`
	Items          []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	DiscountCode   *string                `json:"discount_code"`
	ManualDiscount *manualDiscountRequest `json:"manual_discount"`
	ShippingFee    int64                  `json:"shipping_fee" validate:"gte=0"`
	PaymentMethod  string                 `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer card"`
	Notes          *string                `json:"notes"`
}

type updateOrderRequest struct {
	CustomerName   *string                `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone  *string                `json:"customer_phone" validate:"omitempty,max=30"`
	CustomerEmail  *string                `json:"customer_email" validate:"omitempty,email"`
	Items          []orderItemRequest     `json:"items" validate:"omitempty,dive"`
	DiscountCode   *string                `json:"discount_code"`
	ManualDiscount *manualDiscountRequest `json:"manual_discount"`
	ClearDiscount  bool                   `json:"clear_discount"`
	ShippingFee    *int64                 `json:"shipping_fee" validate:"omitempty,gte=0"`
	PaymentMethod  *string                `json:"payment_method" validate:"omitempty,oneof=cash bank_transfer card"`
	PaymentStatus  *string                `json:"payment_status"`
	Notes          *string                `json:"notes"`
}

type updateOrderStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

func orderItemInputs(items []orderItemRequest) ([]orders.CreateOrderItemInput, error) {
	inputs := make([]orders.CreateOrderItemInput, 0, len(items))
	for i, item := range items {
		variantID, err := uuid.Parse(item.VariantID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant id").
				WithDetails(map[string]any{"index": i})
		}
		inputs = append(inputs, orders.CreateOrderItemInput{
			VariantID: variantID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}
	return inputs, nil
}

func manualDiscountInput(req *manualDiscountRequest) *orders.ManualDiscountInput {
	if req == nil {
		return nil
	}
	return &orders.ManualDiscountInput{
		Type:  enums.DiscountType(req.Type),
		Value: req.Value,
		Note:  req.Note,
	}
}

// OrderCreate places a new order on behalf of the authenticated operator.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := orderItemInputs(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), orders.CreateOrderInput{
			CustomerName:   payload.CustomerName,
			CustomerPhone:  payload.CustomerPhone,
			CustomerEmail:  payload.CustomerEmail,
			Items:          items,
			DiscountCode:   payload.DiscountCode,
			ManualDiscount: manualDiscountInput(payload.ManualDiscount),
			ShippingFee:    payload.ShippingFee,
			PaymentMethod:  enums.PaymentMethod(payload.PaymentMethod),
			Notes:          payload.Notes,
			ActorUserID:    middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrderGet loads a single order with its items and status history.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderList returns a filtered, paginated page of orders.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseOrderFilters(r)
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

func parseOrderFilters(r *http.Request) (orders.OrderFilters, error) {
	var filters orders.OrderFilters

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := enums.OrderStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown order status").
				WithDetails(map[string]any{"status": raw})
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("payment_status"); raw != "" {
		status := enums.PaymentStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status").
				WithDetails(map[string]any{"payment_status": raw})
		}
		filters.PaymentStatus = &status
	}

	shipperID, err := validators.ParseQueryUUID(r, "shipper_id")
	if err != nil {
		return filters, err
	}
	filters.ShipperID = shipperID

	from, err := validators.ParseQueryDate(r, "date_from")
	if err != nil {
		return filters, err
	}
	filters.DateFrom = from

	to, err := validators.ParseQueryDate(r, "date_to")
	if err != nil {
		return filters, err
	}
	filters.DateTo = to

	filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), 200)
	return filters, nil
}

// OrderUpdate edits an order that is still in an editable status.
func OrderUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.UpdateOrderInput{
			OrderID:        orderID,
			CustomerName:   payload.CustomerName,
			CustomerPhone:  payload.CustomerPhone,
			CustomerEmail:  payload.CustomerEmail,
			DiscountCode:   payload.DiscountCode,
			ManualDiscount: manualDiscountInput(payload.ManualDiscount),
			ClearDiscount:  payload.ClearDiscount,
			ShippingFee:    payload.ShippingFee,
			Notes:          payload.Notes,
			ActorUserID:    middleware.UserIDFromContext(r.Context()),
		}
		if len(payload.Items) > 0 {
			items, err := orderItemInputs(payload.Items)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Items = items
		}
		if payload.PaymentMethod != nil {
			method := enums.PaymentMethod(*payload.PaymentMethod)
			input.PaymentMethod = &method
		}
		if payload.PaymentStatus != nil {
			status := enums.PaymentStatus(*payload.PaymentStatus)
			input.PaymentStatus = &status
		}

		order, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderUpdateStatus moves an order along its lifecycle.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID:     orderID,
			Status:      enums.OrderStatus(payload.Status),
			Notes:       payload.Notes,
			ActorUserID: middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderAllowedStatuses lists the statuses an order can move to next.
func OrderAllowedStatuses(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		allowed, err := svc.AllowedNextStatuses(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"allowed": allowed})
	}
}

// OrderStatistics returns order volume, revenue, and recent activity for a
// window. Cancelled orders never count toward revenue.
func OrderStatistics(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		from, err := validators.ParseQueryDate(r, "date_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "date_to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Statistics(r.Context(), orders.StatisticsInput{DateFrom: from, DateTo: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
