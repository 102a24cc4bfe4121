package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/api/middleware"
	"github.com/minhvu-dev/foodpos-backend/internal/orders"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/logger"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type stubOrdersService struct {
	createInput orders.CreateOrderInput
	statusInput orders.UpdateStatusInput
	order       *models.Order
	err         error
}

func (s *stubOrdersService) Create(_ context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.createInput = input
	return s.order, s.err
}

func (s *stubOrdersService) Get(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) List(_ context.Context, params pagination.Params, _ orders.OrderFilters) ([]models.Order, *pagination.Meta, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	meta := pagination.NewMeta(params.Normalize(), 1)
	return []models.Order{*s.order}, &meta, nil
}

func (s *stubOrdersService) Update(context.Context, orders.UpdateOrderInput) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, input orders.UpdateStatusInput) (*models.Order, error) {
	s.statusInput = input
	return s.order, s.err
}

func (s *stubOrdersService) AllowedNextStatuses(context.Context, uuid.UUID) ([]enums.OrderStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusCancelled}, nil
}

func (s *stubOrdersService) Statistics(context.Context, orders.StatisticsInput) (*orders.Statistics, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &orders.Statistics{TotalOrders: 3, Revenue: 4500}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Options{ServiceName: "controllers-test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func testOrder() *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260829-0001",
		Status:      enums.OrderStatusPending,
		TotalAmount: 4500,
	}
}

func doRequest(handler http.HandlerFunc, req *http.Request, params map[string]string) *httptest.ResponseRecorder {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, uuid.New())

	rec := httptest.NewRecorder()
	handler(rec, req.WithContext(ctx))
	return rec
}

func TestOrderCreateReturnsCreated(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	body := map[string]any{
		"customer_name":  "Lan Pham",
		"customer_phone": "0901234567",
		"items": []map[string]any{
			{"variant_id": uuid.NewString(), "quantity": 2},
		},
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(raw))
	rec := doRequest(OrderCreate(svc, testLogger(t)), req, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Lan Pham", svc.createInput.CustomerName)
	assert.NotEqual(t, uuid.Nil, svc.createInput.ActorUserID)

	var decoded struct {
		Data models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "ORD-20260829-0001", decoded.Data.OrderNumber)
}

func TestOrderCreateRejectsUnknownFields(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		bytes.NewReader([]byte(`{"customer_name":"x","bogus":true}`)))
	rec := doRequest(OrderCreate(svc, testLogger(t)), req, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var decoded struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, string(pkgerrors.CodeValidation), decoded.Error.Code)
}

func TestOrderGetRejectsBadID(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
	rec := doRequest(OrderGet(svc, testLogger(t)), req, map[string]string{"orderID": "not-a-uuid"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderUpdateStatusMapsConflict(t *testing.T) {
	svc := &stubOrdersService{
		err: pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed"),
	}

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+orderID.String()+"/status",
		bytes.NewReader([]byte(`{"status":"completed"}`)))
	rec := doRequest(OrderUpdateStatus(svc, testLogger(t)), req, map[string]string{"orderID": orderID.String()})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, orderID, svc.statusInput.OrderID)
	assert.Equal(t, enums.OrderStatusCompleted, svc.statusInput.Status)
}

func TestOrderListReturnsMeta(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?page=1&limit=10&status=pending", nil)
	rec := doRequest(OrderList(svc, testLogger(t)), req, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Data struct {
			Items []models.Order   `json:"items"`
			Meta  *pagination.Meta `json:"meta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded.Data.Items, 1)
	require.NotNil(t, decoded.Data.Meta)
	assert.Equal(t, int64(1), decoded.Data.Meta.Total)
}

func TestOrderListRejectsUnknownStatusFilter(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders?status=shipped", nil)
	rec := doRequest(OrderList(svc, testLogger(t)), req, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var decoded struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, string(pkgerrors.CodeUnknownStatus), decoded.Error.Code)
}

func TestOrderAllowedStatuses(t *testing.T) {
	svc := &stubOrdersService{order: testOrder()}

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID.String()+"/allowed-statuses", nil)
	rec := doRequest(OrderAllowedStatuses(svc, testLogger(t)), req, map[string]string{"orderID": orderID.String()})

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded struct {
		Data struct {
			Allowed []enums.OrderStatus `json:"allowed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, []enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusCancelled}, decoded.Data.Allowed)
}
