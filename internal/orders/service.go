package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/internal/discounts"
	"github.com/minhvu-dev/foodpos-backend/internal/notifications"
	"github.com/minhvu-dev/foodpos-backend/internal/users"
	"github.com/minhvu-dev/foodpos-backend/pkg/config"
	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type discountRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, code string, subtotal int64) (*discounts.Redemption, error)
}

// VariantReader resolves catalog variants when pricing an order.
type VariantReader interface {
	FindVariantsWithProduct(ctx context.Context, tx *gorm.DB, variantIDs []uuid.UUID) ([]models.Variant, error)
}

type feedPublisher interface {
	OrderUpdated(ctx context.Context, event notifications.OrderEvent)
}

// guestResolver links an order's customer contact details to a guest account.
type guestResolver interface {
	FindOrCreateGuest(ctx context.Context, input users.GuestInput) (*models.User, error)
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, *pagination.Meta, error)
	Update(ctx context.Context, input UpdateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	AllowedNextStatuses(ctx context.Context, orderID uuid.UUID) ([]enums.OrderStatus, error)
	Statistics(ctx context.Context, input StatisticsInput) (*Statistics, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	discounts discountRedeemer
	catalog   VariantReader
	feed      feedPublisher
	guests    guestResolver
	cfg       config.OrdersConfig
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, redeemer discountRedeemer, catalog VariantReader, feed feedPublisher, guests guestResolver, cfg config.OrdersConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if redeemer == nil {
		return nil, fmt.Errorf("discount redeemer required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("variant reader required")
	}
	if feed == nil {
		return nil, fmt.Errorf("feed publisher required")
	}
	if guests == nil {
		return nil, fmt.Errorf("guest resolver required")
	}
	if cfg.NumberPrefix == "" {
		return nil, fmt.Errorf("order number prefix required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		discounts: redeemer,
		catalog:   catalog,
		feed:      feed,
		guests:    guests,
		cfg:       cfg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.DiscountCode != nil && input.ManualDiscount != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code and manual discount are mutually exclusive")
	}
	if input.PaymentMethod != "" && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	// Walk-in customers get a guest account keyed by phone so repeat orders
	// link to the same record.
	guest, err := s.guests.FindOrCreateGuest(ctx, users.GuestInput{
		FullName: strings.TrimSpace(input.CustomerName),
		Phone:    strings.TrimSpace(input.CustomerPhone),
		Email:    strings.TrimSpace(input.CustomerEmail),
	})
	if err != nil {
		return nil, err
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orderItems, lineItems, err := s.priceItems(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		pricing, err := s.resolvePricing(ctx, tx, lineItems, input.DiscountCode, input.ManualDiscount, input.ShippingFee)
		if err != nil {
			return err
		}

		number, err := s.nextOrderNumber(ctx, repo)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNumber:    number,
			CustomerID:     &guest.ID,
			CustomerName:   strings.TrimSpace(input.CustomerName),
			CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
			CustomerEmail:  strings.TrimSpace(input.CustomerEmail),
			Status:         enums.OrderStatusPending,
			Subtotal:       pricing.totals.Subtotal,
			DiscountAmount: pricing.totals.DiscountAmount,
			DiscountType:   pricing.discountType,
			DiscountCode:   pricing.discountCode,
			DiscountNote:   pricing.discountNote,
			ShippingFee:    pricing.totals.ShippingFee,
			TotalAmount:    pricing.totals.GrandTotal,
			PaymentMethod:  input.PaymentMethod,
			PaymentStatus:  enums.PaymentStatusPending,
			Notes:          input.Notes,
			DeliveryStatus: enums.DeliveryStatusPending,
			CreatedBy:      input.ActorUserID,
			UpdatedBy:      input.ActorUserID,
			Items:          orderItems,
		}

		created, err = repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		history := &models.OrderStatusHistory{
			OrderID:   created.ID,
			Status:    enums.OrderStatusPending,
			ChangedBy: input.ActorUserID,
		}
		if err := repo.AppendStatusHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record status history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.OrderUpdated(ctx, notifications.OrderEvent{
		Type:        notifications.EventOrderCreated,
		OrderID:     created.ID,
		OrderNumber: created.OrderNumber,
		Status:      created.Status,
	})
	return created, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderFilters) ([]models.Order, *pagination.Meta, error) {
	params = params.Normalize()
	orders, total, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	meta := pagination.NewMeta(params, total)
	return orders, &meta, nil
}

// editableStatuses are the lifecycle states in which order contents may still
// change.
var editableStatuses = map[enums.OrderStatus]bool{
	enums.OrderStatusPending:    true,
	enums.OrderStatusProcessing: true,
}

func (s *service) Update(ctx context.Context, input UpdateOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.DiscountCode != nil && input.ManualDiscount != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount code and manual discount are mutually exclusive")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !editableStatuses[order.Status] {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be edited").
				WithDetails(map[string]any{"status": string(order.Status)})
		}

		updates := map[string]any{"updated_by": input.ActorUserID}
		if input.CustomerName != nil {
			if strings.TrimSpace(*input.CustomerName) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
			}
			updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
		}
		if input.CustomerPhone != nil {
			if strings.TrimSpace(*input.CustomerPhone) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
			}
			updates["customer_phone"] = strings.TrimSpace(*input.CustomerPhone)
		}
		if input.CustomerEmail != nil {
			updates["customer_email"] = strings.TrimSpace(*input.CustomerEmail)
		}
		if input.PaymentMethod != nil {
			if !input.PaymentMethod.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
			}
			updates["payment_method"] = *input.PaymentMethod
		}
		if input.PaymentStatus != nil {
			if !input.PaymentStatus.IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment status")
			}
			updates["payment_status"] = *input.PaymentStatus
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}

		reprice := len(input.Items) > 0 ||
			input.ShippingFee != nil ||
			input.DiscountCode != nil ||
			input.ManualDiscount != nil ||
			input.ClearDiscount

		if reprice {
			lineItems := lineItemsFromOrder(order)
			orderItems := order.Items
			if len(input.Items) > 0 {
				orderItems, lineItems, err = s.priceItems(ctx, tx, input.Items)
				if err != nil {
					return err
				}
			}

			fee := order.ShippingFee
			if input.ShippingFee != nil {
				fee = *input.ShippingFee
			}

			pricing, err := s.repriceExisting(ctx, tx, order, lineItems, input, fee)
			if err != nil {
				return err
			}

			if len(input.Items) > 0 {
				for i := range orderItems {
					orderItems[i].OrderID = order.ID
				}
				if err := repo.ReplaceOrderItems(ctx, order.ID, orderItems); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order items")
				}
			}

			updates["subtotal"] = pricing.totals.Subtotal
			updates["discount_amount"] = pricing.totals.DiscountAmount
			updates["discount_type"] = pricing.discountType
			updates["discount_code"] = pricing.discountCode
			updates["discount_note"] = pricing.discountNote
			updates["shipping_fee"] = pricing.totals.ShippingFee
			updates["total_amount"] = pricing.totals.GrandTotal
		}

		if err := repo.UpdateOrder(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}

		updated, err = repo.FindOrderByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.OrderUpdated(ctx, notifications.OrderEvent{
		Type:        notifications.EventOrderUpdated,
		OrderID:     updated.ID,
		OrderNumber: updated.OrderNumber,
		Status:      updated.Status,
	})
	return updated, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnknownStatus, "unknown order status").
			WithDetails(map[string]any{"status": string(input.Status)})
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if !IsValidTransition(order.Status, input.Status) {
			allowed, _ := NextStatuses(order.Status)
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{
					"from":    string(order.Status),
					"to":      string(input.Status),
					"allowed": allowed,
				})
		}

		previous := order.Status
		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":     input.Status,
			"updated_by": input.ActorUserID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		history := &models.OrderStatusHistory{
			OrderID:        order.ID,
			Status:         input.Status,
			PreviousStatus: &previous,
			Notes:          input.Notes,
			ChangedBy:      input.ActorUserID,
		}
		if err := repo.AppendStatusHistory(ctx, history); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record status history")
		}

		updated, err = repo.FindOrderByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.feed.OrderUpdated(ctx, notifications.OrderEvent{
		Type:        notifications.EventOrderStatusChanged,
		OrderID:     updated.ID,
		OrderNumber: updated.OrderNumber,
		Status:      updated.Status,
	})
	return updated, nil
}

func (s *service) AllowedNextStatuses(ctx context.Context, orderID uuid.UUID) ([]enums.OrderStatus, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NextStatuses(order.Status)
}

// recentOrdersLimit bounds the dashboard's latest-orders panel.
const recentOrdersLimit = 10

func (s *service) Statistics(ctx context.Context, input StatisticsInput) (*Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx, input.DateFrom, input.DateTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	revenue, err := s.repo.SumRevenue(ctx, input.DateFrom, input.DateTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	recent, err := s.repo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent orders")
	}

	var daily []DailyStat
	if input.DateFrom != nil || input.DateTo != nil {
		daily, err = s.repo.DailyStats(ctx, input.DateFrom, input.DateTo)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily stats")
		}
	}

	var total, billable int64
	for _, count := range counts {
		total += count.Count
		if count.Status != enums.OrderStatusCancelled {
			billable += count.Count
		}
	}
	var average int64
	if billable > 0 {
		average = revenue / billable
	}

	return &Statistics{
		TotalOrders:       total,
		Revenue:           revenue,
		AverageOrderValue: average,
		StatusCounts:      counts,
		RecentOrders:      recent,
		DailyStats:        daily,
	}, nil
}

type resolvedPricing struct {
	totals       Totals
	discountType *enums.DiscountType
	discountCode *string
	discountNote *string
}

// priceItems loads the referenced variants and snapshots names and prices
// into order items.
func (s *service) priceItems(ctx context.Context, tx *gorm.DB, inputs []CreateOrderItemInput) ([]models.OrderItem, []LineItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for i, item := range inputs {
		if item.VariantID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required").
				WithDetails(map[string]any{"index": i})
		}
		if item.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"index": i})
		}
		ids = append(ids, item.VariantID)
	}

	variants, err := s.catalog.FindVariantsWithProduct(ctx, tx, ids)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variants")
	}
	byID := make(map[uuid.UUID]models.Variant, len(variants))
	for _, variant := range variants {
		byID[variant.ID] = variant
	}

	orderItems := make([]models.OrderItem, 0, len(inputs))
	lineItems := make([]LineItem, 0, len(inputs))
	for _, item := range inputs {
		variant, ok := byID[item.VariantID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
				WithDetails(map[string]any{"variant_id": item.VariantID.String()})
		}
		productName := ""
		if variant.Product != nil {
			productName = variant.Product.Name
		}
		orderItems = append(orderItems, models.OrderItem{
			VariantID:   variant.ID,
			ProductName: productName,
			VariantName: variant.Name,
			Quantity:    item.Quantity,
			UnitPrice:   variant.Price,
			TotalPrice:  int64(item.Quantity) * variant.Price,
			Notes:       item.Notes,
		})
		lineItems = append(lineItems, LineItem{Quantity: item.Quantity, UnitPrice: variant.Price})
	}
	return orderItems, lineItems, nil
}

// resolvePricing computes totals for a new order, consuming a discount code
// redemption when one is supplied.
func (s *service) resolvePricing(ctx context.Context, tx *gorm.DB, lineItems []LineItem, code *string, manual *ManualDiscountInput, shippingFee int64) (*resolvedPricing, error) {
	base, err := CalculateTotals(lineItems, NoDiscount{}, shippingFee)
	if err != nil {
		return nil, err
	}

	switch {
	case code != nil:
		redemption, err := s.discounts.Redeem(ctx, tx, *code, base.Subtotal)
		if err != nil {
			return nil, err
		}
		spec := CodeDiscount{
			Code:      redemption.Code,
			Type:      redemption.Type,
			Value:     redemption.Value,
			MaxAmount: redemption.MaxAmount,
		}
		totals, err := CalculateTotals(lineItems, spec, shippingFee)
		if err != nil {
			return nil, err
		}
		discountType := redemption.Type
		return &resolvedPricing{
			totals:       totals,
			discountType: &discountType,
			discountCode: &redemption.Code,
		}, nil

	case manual != nil:
		value, err := decimal.NewFromString(manual.Value)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid discount value")
		}
		spec := ManualDiscount{Type: manual.Type, Value: value}
		totals, err := CalculateTotals(lineItems, spec, shippingFee)
		if err != nil {
			return nil, err
		}
		discountType := manual.Type
		return &resolvedPricing{
			totals:       totals,
			discountType: &discountType,
			discountNote: manual.Note,
		}, nil

	default:
		return &resolvedPricing{totals: base}, nil
	}
}

// repriceExisting recomputes totals for an edited order. When the discount
// is untouched, the stored discount amount is carried as a fixed amount so
// code usage is not consumed again.
func (s *service) repriceExisting(ctx context.Context, tx *gorm.DB, order *models.Order, lineItems []LineItem, input UpdateOrderInput, shippingFee int64) (*resolvedPricing, error) {
	switch {
	case input.ClearDiscount:
		totals, err := CalculateTotals(lineItems, NoDiscount{}, shippingFee)
		if err != nil {
			return nil, err
		}
		return &resolvedPricing{totals: totals}, nil

	case input.DiscountCode != nil || input.ManualDiscount != nil:
		return s.resolvePricing(ctx, tx, lineItems, input.DiscountCode, input.ManualDiscount, shippingFee)

	case order.DiscountType != nil:
		spec := ManualDiscount{
			Type:  enums.DiscountTypeFixedAmount,
			Value: decimal.NewFromInt(order.DiscountAmount),
		}
		totals, err := CalculateTotals(lineItems, spec, shippingFee)
		if err != nil {
			return nil, err
		}
		return &resolvedPricing{
			totals:       totals,
			discountType: order.DiscountType,
			discountCode: order.DiscountCode,
			discountNote: order.DiscountNote,
		}, nil

	default:
		totals, err := CalculateTotals(lineItems, NoDiscount{}, shippingFee)
		if err != nil {
			return nil, err
		}
		return &resolvedPricing{totals: totals}, nil
	}
}

func lineItemsFromOrder(order *models.Order) []LineItem {
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	return items
}

// nextOrderNumber produces ORD-YYYYMMDD-NNNN using the day's order count.
func (s *service) nextOrderNumber(ctx context.Context, repo Repository) (string, error) {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := repo.CountOrdersCreatedBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today's orders")
	}
	return fmt.Sprintf("%s-%s-%04d", s.cfg.NumberPrefix, now.Format("20060102"), count+1), nil
}
