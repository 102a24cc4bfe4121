package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvu-dev/foodpos-backend/internal/deliveries"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type stubDeliveriesService struct {
	delivery    *models.DeliveryOrder
	createInput deliveries.CreateDeliveryInput
}

func (s *stubDeliveriesService) Create(ctx context.Context, input deliveries.CreateDeliveryInput) (*models.DeliveryOrder, error) {
	s.createInput = input
	return s.delivery, nil
}

func (s *stubDeliveriesService) Get(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error) {
	return s.delivery, nil
}

func (s *stubDeliveriesService) List(ctx context.Context, params pagination.Params, filters deliveries.DeliveryFilters) ([]models.DeliveryOrder, *pagination.Meta, error) {
	return nil, &pagination.Meta{}, nil
}

func (s *stubDeliveriesService) UpdateStatus(ctx context.Context, input deliveries.UpdateStatusInput) (*models.DeliveryOrder, error) {
	return s.delivery, nil
}

func (s *stubDeliveriesService) AllowedNextStatuses(ctx context.Context, deliveryID uuid.UUID) ([]enums.DeliveryStatus, error) {
	return []enums.DeliveryStatus{enums.DeliveryStatusAssigned}, nil
}

func testDelivery() *models.DeliveryOrder {
	return &models.DeliveryOrder{
		ID:             uuid.New(),
		DeliveryNumber: "DEL-20260830-0001",
		Status:         enums.DeliveryStatusAssigned,
	}
}

func TestOrderAssignShipperOpensTrip(t *testing.T) {
	svc := &stubDeliveriesService{delivery: testDelivery()}
	orderID := uuid.New()
	shipperID := uuid.New()

	raw, err := json.Marshal(map[string]any{"shipper_id": shipperID.String()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/assign-shipper", bytes.NewReader(raw))
	rec := doRequest(OrderAssignShipper(svc, testLogger(t)), req, map[string]string{"orderID": orderID.String()})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, orderID, svc.createInput.OrderID)
	require.NotNil(t, svc.createInput.ShipperID)
	assert.Equal(t, shipperID, *svc.createInput.ShipperID)
	assert.NotEqual(t, uuid.Nil, svc.createInput.ActorID)

	var decoded struct {
		Data models.DeliveryOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "DEL-20260830-0001", decoded.Data.DeliveryNumber)
}

func TestOrderAssignShipperRejectsMissingShipper(t *testing.T) {
	svc := &stubDeliveriesService{delivery: testDelivery()}
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/assign-shipper",
		bytes.NewReader([]byte(`{}`)))
	rec := doRequest(OrderAssignShipper(svc, testLogger(t)), req, map[string]string{"orderID": orderID.String()})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var decoded struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "VALIDATION_ERROR", decoded.Error.Code)
}

func TestOrderAssignShipperRejectsBadOrderID(t *testing.T) {
	svc := &stubDeliveriesService{delivery: testDelivery()}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/nope/assign-shipper",
		bytes.NewReader([]byte(`{"shipper_id":"`+uuid.NewString()+`"}`)))
	rec := doRequest(OrderAssignShipper(svc, testLogger(t)), req, map[string]string{"orderID": "nope"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
