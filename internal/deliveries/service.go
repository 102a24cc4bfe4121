package deliveries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/internal/notifications"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type orderStore interface {
	FindOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

type shipperReader interface {
	FindByID(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error)
}

type feedPublisher interface {
	OrderUpdated(ctx context.Context, event notifications.OrderEvent)
}

// Service defines delivery trip management. An order can be split across
// several trips, each covering a disjoint subset of its items.
type Service interface {
	Create(ctx context.Context, input CreateDeliveryInput) (*models.DeliveryOrder, error)
	Get(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error)
	List(ctx context.Context, params pagination.Params, filters DeliveryFilters) ([]models.DeliveryOrder, *pagination.Meta, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.DeliveryOrder, error)
	AllowedNextStatuses(ctx context.Context, deliveryID uuid.UUID) ([]enums.DeliveryStatus, error)
}

type service struct {
	repo     Repository
	orders   orderStore
	shippers shipperReader
	tx       txRunner
	feed     feedPublisher
	cfg      config.OrdersConfig
}

// NewService builds a deliveries service with the required dependencies.
func NewService(repo Repository, orders orderStore, shippers shipperReader, tx txRunner, feed feedPublisher, cfg config.OrdersConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if shippers == nil {
		return nil, fmt.Errorf("shipper reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if feed == nil {
		return nil, fmt.Errorf("feed publisher required")
	}
	if cfg.DeliveryNumberPrefix == "" {
		return nil, fmt.Errorf("delivery number prefix required")
	}
	return &service{
		repo:     repo,
		orders:   orders,
		shippers: shippers,
		tx:       tx,
		feed:     feed,
		cfg:      cfg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateDeliveryInput) (*models.DeliveryOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}

	order, err := s.orders.FindOrderByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Status != enums.OrderStatusReadyForDelivery {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not ready for delivery").
			WithDetails(map[string]any{"order_status": string(order.Status)})
	}

	items, err := s.resolveItems(ctx, order, input.Items)
	if err != nil {
		return nil, err
	}

	status := enums.DeliveryStatusPending
	if input.ShipperID != nil {
		if err := s.checkShipper(ctx, *input.ShipperID); err != nil {
			return nil, err
		}
		status = enums.DeliveryStatusAssigned
	}

	var created *models.DeliveryOrder
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		number, err := s.nextDeliveryNumber(ctx, repo)
		if err != nil {
			return err
		}
		delivery := &models.DeliveryOrder{
			OrderID:               order.ID,
			ShipperID:             input.ShipperID,
			DeliveryNumber:        number,
			Status:                status,
			EstimatedDeliveryTime: input.EstimatedDeliveryTime,
			Notes:                 input.Notes,
			Items:                 items,
			CreatedBy:             input.ActorID,
			UpdatedBy:             input.ActorID,
		}
		created, err = repo.Create(ctx, delivery)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery")
		}
		if input.ShipperID != nil {
			if err := s.syncOrder(ctx, order.ID, input.ShipperID, status, nil, input.ActorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.OrderUpdated(ctx, notifications.OrderEvent{
		Type:        notifications.EventOrderUpdated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
	})
	return created, nil
}

func (s *service) Get(ctx context.Context, deliveryID uuid.UUID) (*models.DeliveryOrder, error) {
	if deliveryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery id required")
	}
	delivery, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
	}
	return delivery, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters DeliveryFilters) ([]models.DeliveryOrder, *pagination.Meta, error) {
	params = params.Normalize()
	deliveries, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliveries")
	}
	meta := pagination.NewMeta(params, total)
	return deliveries, &meta, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.DeliveryOrder, error) {
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown delivery status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	delivery, err := s.Get(ctx, input.DeliveryID)
	if err != nil {
		return nil, err
	}
	if !IsValidTransition(delivery.Status, input.Status) {
		allowed, _ := NextStatuses(delivery.Status)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery status transition not allowed").
			WithDetails(map[string]any{
				"from":    string(delivery.Status),
				"to":      string(input.Status),
				"allowed": allowed,
			})
	}

	shipperID := delivery.ShipperID
	if input.ShipperID != nil {
		shipperID = input.ShipperID
	}
	if input.Status == enums.DeliveryStatusAssigned {
		if shipperID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper required to assign a delivery")
		}
		if err := s.checkShipper(ctx, *shipperID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":     input.Status,
		"updated_by": input.ActorID,
	}
	if input.ShipperID != nil {
		updates["shipper_id"] = *input.ShipperID
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	var deliveredAt *time.Time
	if input.Status == enums.DeliveryStatusDelivered {
		deliveredAt = &now
		updates["actual_delivery_time"] = now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, delivery.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery")
		}
		return s.syncOrder(ctx, delivery.OrderID, shipperID, input.Status, deliveredAt, input.ActorID)
	})
	if err != nil {
		return nil, err
	}

	if order, err := s.orders.FindOrderByID(ctx, delivery.OrderID); err == nil {
		s.feed.OrderUpdated(ctx, notifications.OrderEvent{
			Type:        notifications.EventOrderUpdated,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
		})
	}
	return s.Get(ctx, delivery.ID)
}

func (s *service) AllowedNextStatuses(ctx context.Context, deliveryID uuid.UUID) ([]enums.DeliveryStatus, error) {
	delivery, err := s.Get(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return NextStatuses(delivery.Status)
}

// resolveItems validates the requested item subset against the order and the
// quantities already booked on other trips. An empty request books everything
// still unassigned.
func (s *service) resolveItems(ctx context.Context, order *models.Order, inputs []DeliveryItemInput) ([]models.DeliveryOrderItem, error) {
	assigned, err := s.repo.AssignedQuantities(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assigned quantities")
	}

	orderItems := make(map[uuid.UUID]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderItems[item.ID] = item
	}

	if len(inputs) == 0 {
		items := make([]models.DeliveryOrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			remaining := item.Quantity - assigned[item.ID]
			if remaining <= 0 {
				continue
			}
			items = append(items, models.DeliveryOrderItem{
				OrderItemID: item.ID,
				Quantity:    remaining,
			})
		}
		if len(items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "all order items are already assigned to deliveries")
		}
		return items, nil
	}

	items := make([]models.DeliveryOrderItem, 0, len(inputs))
	seen := map[uuid.UUID]bool{}
	for _, input := range inputs {
		item, ok := orderItems[input.OrderItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item does not belong to this order").
				WithDetails(map[string]any{"order_item_id": input.OrderItemID.String()})
		}
		if seen[input.OrderItemID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate order item in delivery").
				WithDetails(map[string]any{"order_item_id": input.OrderItemID.String()})
		}
		seen[input.OrderItemID] = true
		if input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery quantity must be positive").
				WithDetails(map[string]any{"order_item_id": input.OrderItemID.String()})
		}
		remaining := item.Quantity - assigned[item.ID]
		if input.Quantity > remaining {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery quantity exceeds unassigned quantity").
				WithDetails(map[string]any{
					"order_item_id": input.OrderItemID.String(),
					"requested":     input.Quantity,
					"remaining":     remaining,
				})
		}
		items = append(items, models.DeliveryOrderItem{
			OrderItemID: input.OrderItemID,
			Quantity:    input.Quantity,
		})
	}
	return items, nil
}

func (s *service) checkShipper(ctx context.Context, shipperID uuid.UUID) error {
	shipper, err := s.shippers.FindByID(ctx, shipperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "shipper not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipper")
	}
	if !shipper.IsActive {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "shipper is not active").
			WithDetails(map[string]any{"shipper_id": shipperID.String()})
	}
	return nil
}

// syncOrder mirrors the latest trip state onto the order row so the dashboard
// list view does not need to join delivery orders.
func (s *service) syncOrder(ctx context.Context, orderID uuid.UUID, shipperID *uuid.UUID, status enums.DeliveryStatus, deliveredAt *time.Time, actorID uuid.UUID) error {
	updates := map[string]any{
		"delivery_status": status,
		"updated_by":      actorID,
	}
	if shipperID != nil {
		updates["shipper_id"] = *shipperID
	}
	if deliveredAt != nil {
		updates["actual_delivery_time"] = *deliveredAt
	}
	if err := s.orders.UpdateOrder(ctx, orderID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync order delivery state")
	}
	return nil
}

// nextDeliveryNumber produces DEL-YYYYMMDD-NNNN using the day's trip count.
func (s *service) nextDeliveryNumber(ctx context.Context, repo Repository) (string, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := repo.CountCreatedBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count deliveries for numbering")
	}
	return fmt.Sprintf("%s-%s-%04d", s.cfg.DeliveryNumberPrefix, now.Format("20060102"), count+1), nil
}
