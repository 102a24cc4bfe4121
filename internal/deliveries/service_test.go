package deliveries

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/internal/notifications"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type stubDeliveriesRepo struct {
	deliveries map[uuid.UUID]*models.DeliveryOrder
	assigned   map[uuid.UUID]int

	updates map[string]any
}

func newStubDeliveriesRepo() *stubDeliveriesRepo {
	return &stubDeliveriesRepo{
		deliveries: map[uuid.UUID]*models.DeliveryOrder{},
		assigned:   map[uuid.UUID]int{},
	}
}

func (s *stubDeliveriesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDeliveriesRepo) Create(ctx context.Context, delivery *models.DeliveryOrder) (*models.DeliveryOrder, error) {
	delivery.ID = uuid.New()
	s.deliveries[delivery.ID] = delivery
	return delivery, nil
}

func (s *stubDeliveriesRepo) FindByID(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error) {
	delivery, ok := s.deliveries[deliveryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return delivery, nil
}

func (s *stubDeliveriesRepo) List(ctx context.Context, params pagination.Params, filters DeliveryFilters) ([]models.DeliveryOrder, int64, error) {
	out := make([]models.DeliveryOrder, 0, len(s.deliveries))
	for _, delivery := range s.deliveries {
		out = append(out, *delivery)
	}
	return out, int64(len(out)), nil
}

func (s *stubDeliveriesRepo) Update(ctx context.Context, deliveryID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	delivery := s.deliveries[deliveryID]
	if status, ok := updates["status"].(enums.DeliveryStatus); ok {
		delivery.Status = status
	}
	if shipperID, ok := updates["shipper_id"].(uuid.UUID); ok {
		delivery.ShipperID = &shipperID
	}
	return nil
}

func (s *stubDeliveriesRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return int64(len(s.deliveries)), nil
}

func (s *stubDeliveriesRepo) AssignedQuantities(ctx context.Context, orderID uuid.UUID) (map[uuid.UUID]int, error) {
	return s.assigned, nil
}

func (s *stubDeliveriesRepo) CountOpenForOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubOrderStore struct {
	orders  map[uuid.UUID]*models.Order
	updates map[string]any
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderStore) FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderStore) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	order := s.orders[orderID]
	if status, ok := updates["delivery_status"].(enums.DeliveryStatus); ok {
		order.DeliveryStatus = status
	}
	if shipperID, ok := updates["shipper_id"].(uuid.UUID); ok {
		order.ShipperID = &shipperID
	}
	return nil
}

type stubShipperReader struct {
	shippers map[uuid.UUID]*models.Shipper
}

func (s *stubShipperReader) FindByID(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error) {
	shipper, ok := s.shippers[shipperID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return shipper, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubFeed struct {
	events []notifications.OrderEvent
}

func (s *stubFeed) OrderUpdated(ctx context.Context, event notifications.OrderEvent) {
	s.events = append(s.events, event)
}

type fixture struct {
	repo     *stubDeliveriesRepo
	orders   *stubOrderStore
	shippers *stubShipperReader
	feed     *stubFeed
	svc      Service

	order   *models.Order
	shipper *models.Shipper
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubDeliveriesRepo()
	orders := newStubOrderStore()
	shipper := &models.Shipper{ID: uuid.New(), Name: "Nguyen Van A", Phone: "0901234567", IsActive: true}
	shippers := &stubShipperReader{shippers: map[uuid.UUID]*models.Shipper{shipper.ID: shipper}}
	feed := &stubFeed{}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260829-0001",
		Status:      enums.OrderStatusReadyForDelivery,
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductName: "Pho Bo", VariantName: "Regular", Quantity: 2, UnitPrice: 25000, TotalPrice: 50000},
			{ID: uuid.New(), ProductName: "Bun Cha", VariantName: "Regular", Quantity: 1, UnitPrice: 35000, TotalPrice: 35000},
		},
	}
	orders.orders[order.ID] = order

	svc, err := NewService(repo, orders, shippers, stubTxRunner{}, feed, config.OrdersConfig{
		NumberPrefix:         "ORD",
		DeliveryNumberPrefix: "DEL",
	})
	require.NoError(t, err)

	return &fixture{
		repo:     repo,
		orders:   orders,
		shippers: shippers,
		feed:     feed,
		svc:      svc,
		order:    order,
		shipper:  shipper,
	}
}

func TestCreateDeliveryWholeOrder(t *testing.T) {
	f := newFixture(t)

	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusPending, delivery.Status)
	assert.True(t, strings.HasPrefix(delivery.DeliveryNumber, "DEL-"))
	require.Len(t, delivery.Items, 2)
	assert.Equal(t, 2, delivery.Items[0].Quantity)
	require.Len(t, f.feed.events, 1)
	assert.Equal(t, notifications.EventOrderUpdated, f.feed.events[0].Type)
}

func TestCreateDeliveryWithShipperAssigns(t *testing.T) {
	f := newFixture(t)

	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID:   f.order.ID,
		ShipperID: &f.shipper.ID,
		ActorID:   uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusAssigned, delivery.Status)
	assert.Equal(t, enums.DeliveryStatusAssigned, f.order.DeliveryStatus)
	require.NotNil(t, f.order.ShipperID)
	assert.Equal(t, f.shipper.ID, *f.order.ShipperID)
}

func TestCreateDeliveryPartialSplit(t *testing.T) {
	f := newFixture(t)
	first := f.order.Items[0]

	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		Items:   []DeliveryItemInput{{OrderItemID: first.ID, Quantity: 1}},
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, delivery.Items, 1)
	assert.Equal(t, 1, delivery.Items[0].Quantity)

	// The second trip can only take what the first one left.
	f.repo.assigned[first.ID] = 1
	_, err = f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		Items:   []DeliveryItemInput{{OrderItemID: first.ID, Quantity: 2}},
		ActorID: uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestCreateDeliveryRejectsForeignItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		Items:   []DeliveryItemInput{{OrderItemID: uuid.New(), Quantity: 1}},
		ActorID: uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateDeliveryRequiresReadyOrder(t *testing.T) {
	f := newFixture(t)
	f.order.Status = enums.OrderStatusPending

	_, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusAssignRequiresShipper(t *testing.T) {
	f := newFixture(t)
	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		DeliveryID: delivery.ID,
		Status:     enums.DeliveryStatusAssigned,
		ActorID:    uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusLifecycleToDelivered(t *testing.T) {
	f := newFixture(t)
	actor := uuid.New()
	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID:   f.order.ID,
		ShipperID: &f.shipper.ID,
		ActorID:   actor,
	})
	require.NoError(t, err)

	for _, status := range []enums.DeliveryStatus{
		enums.DeliveryStatusPickedUp,
		enums.DeliveryStatusInTransit,
		enums.DeliveryStatusDelivered,
	} {
		delivery, err = f.svc.UpdateStatus(context.Background(), UpdateStatusInput{
			DeliveryID: delivery.ID,
			Status:     status,
			ActorID:    actor,
		})
		require.NoError(t, err)
		assert.Equal(t, status, delivery.Status)
	}
	assert.Equal(t, enums.DeliveryStatusDelivered, f.order.DeliveryStatus)
	assert.Contains(t, f.orders.updates, "actual_delivery_time")
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		DeliveryID: delivery.ID,
		Status:     enums.DeliveryStatusDelivered,
		ActorID:    uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	f := newFixture(t)
	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), UpdateStatusInput{
		DeliveryID: delivery.ID,
		Status:     enums.DeliveryStatus("teleported"),
		ActorID:    uuid.New(),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnknownStatus, typed.Code())
}

func TestAllowedNextStatuses(t *testing.T) {
	f := newFixture(t)
	delivery, err := f.svc.Create(context.Background(), CreateDeliveryInput{
		OrderID: f.order.ID,
		ActorID: uuid.New(),
	})
	require.NoError(t, err)

	next, err := f.svc.AllowedNextStatuses(context.Background(), delivery.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []enums.DeliveryStatus{
		enums.DeliveryStatusAssigned,
		enums.DeliveryStatusCancelled,
	}, next)
}
