package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/minhvu-dev/foodpos-backend/api/middleware"
	"github.com/minhvu-dev/foodpos-backend/api/responses"
	"github.com/minhvu-dev/foodpos-backend/api/validators"
	"github.com/minhvu-dev/foodpos-backend/internal/discounts"
	"github.com/minhvu-dev/foodpos-backend/internal/orders"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
)

type createDiscountCodeRequest struct {
	Code              string    `json:"code" validate:"required,max=50"`
	Name              string    `json:"name" validate:"required,max=200"`
	Description       string    `json:"description"`
	DiscountType      string    `json:"discount_type" validate:"required,oneof=percentage fixed_amount"`
	DiscountValue     string    `json:"discount_value" validate:"required"`
	MinOrderAmount    int64     `json:"min_order_amount" validate:"gte=0"`
	MaxDiscountAmount *int64    `json:"max_discount_amount" validate:"omitempty,gte=0"`
	UsageLimit        *int      `json:"usage_limit" validate:"omitempty,gt=0"`
	ValidFrom         time.Time `json:"valid_from" validate:"required"`
	ValidUntil        time.Time `json:"valid_until" validate:"required"`
}

type updateDiscountCodeRequest struct {
	Name              *string    `json:"name" validate:"omitempty,max=200"`
	Description       *string    `json:"description"`
	DiscountType      *string    `json:"discount_type" validate:"omitempty,oneof=percentage fixed_amount"`
	DiscountValue     *string    `json:"discount_value"`
	MinOrderAmount    *int64     `json:"min_order_amount" validate:"omitempty,gte=0"`
	MaxDiscountAmount *int64     `json:"max_discount_amount" validate:"omitempty,gte=0"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,gt=0"`
	IsActive          *bool      `json:"is_active"`
	ValidFrom         *time.Time `json:"valid_from"`
	ValidUntil        *time.Time `json:"valid_until"`
}

type validateDiscountCodeRequest struct {
	Code     string `json:"code" validate:"required"`
	Subtotal int64  `json:"subtotal" validate:"gte=0"`
}

// validateDiscountCodeResponse previews what a code would take off an order
// at the given subtotal, without consuming a redemption.
type validateDiscountCodeResponse struct {
	Code           string `json:"code"`
	DiscountType   string `json:"discount_type"`
	DiscountValue  string `json:"discount_value"`
	DiscountAmount int64  `json:"discount_amount"`
	Total          int64  `json:"total"`
}

// DiscountCodeCreate registers a new discount code.
func DiscountCodeCreate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		var payload createDiscountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		value, err := decimal.NewFromString(payload.DiscountValue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount value"))
			return
		}

		code, err := svc.Create(r.Context(), discounts.CreateDiscountCodeInput{
			Code:              payload.Code,
			Name:              payload.Name,
			Description:       payload.Description,
			DiscountType:      enums.DiscountType(payload.DiscountType),
			DiscountValue:     value,
			MinOrderAmount:    payload.MinOrderAmount,
			MaxDiscountAmount: payload.MaxDiscountAmount,
			UsageLimit:        payload.UsageLimit,
			ValidFrom:         payload.ValidFrom,
			ValidUntil:        payload.ValidUntil,
			ActorUserID:       middleware.UserIDFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, code)
	}
}

// DiscountCodeGet loads a single discount code.
func DiscountCodeGet(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		codeID, err := validators.PathUUID(chi.URLParam(r, "codeID"), "codeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		code, err := svc.Get(r.Context(), codeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, code)
	}
}

// DiscountCodeList returns a filtered, paginated page of discount codes.
func DiscountCodeList(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters discounts.DiscountCodeFilters
		if raw := r.URL.Query().Get("is_active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").
						WithDetails(map[string]any{"field": "is_active"}))
				return
			}
			filters.IsActive = &active
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

// DiscountCodeUpdate edits an existing discount code.
func DiscountCodeUpdate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		codeID, err := validators.PathUUID(chi.URLParam(r, "codeID"), "codeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDiscountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := discounts.UpdateDiscountCodeInput{
			CodeID:            codeID,
			Name:              payload.Name,
			Description:       payload.Description,
			MinOrderAmount:    payload.MinOrderAmount,
			MaxDiscountAmount: payload.MaxDiscountAmount,
			UsageLimit:        payload.UsageLimit,
			IsActive:          payload.IsActive,
			ValidFrom:         payload.ValidFrom,
			ValidUntil:        payload.ValidUntil,
		}
		if payload.DiscountType != nil {
			discountType := enums.DiscountType(*payload.DiscountType)
			input.DiscountType = &discountType
		}
		if payload.DiscountValue != nil {
			value, err := decimal.NewFromString(*payload.DiscountValue)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount value"))
				return
			}
			input.DiscountValue = &value
		}

		code, err := svc.Update(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, code)
	}
}

// DiscountCodeDelete removes a discount code.
func DiscountCodeDelete(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		codeID, err := validators.PathUUID(chi.URLParam(r, "codeID"), "codeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), codeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusNoContent, nil)
	}
}

// DiscountCodeValidate checks a code against a subtotal and previews the
// resulting totals without consuming a redemption.
func DiscountCodeValidate(svc discounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discounts service unavailable"))
			return
		}

		var payload validateDiscountCodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		redemption, err := svc.Validate(r.Context(), payload.Code, payload.Subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		totals, err := orders.CalculateTotals(
			[]orders.LineItem{{Quantity: 1, UnitPrice: payload.Subtotal}},
			orders.CodeDiscount{
				Code:      redemption.Code,
				Type:      redemption.Type,
				Value:     redemption.Value,
				MaxAmount: redemption.MaxAmount,
			},
			0,
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, validateDiscountCodeResponse{
			Code:           redemption.Code,
			DiscountType:   string(redemption.Type),
			DiscountValue:  redemption.Value.String(),
			DiscountAmount: totals.DiscountAmount,
			Total:          totals.GrandTotal,
		})
	}
}
