package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Service defines discount code management and redemption.
type Service interface {
	Create(ctx context.Context, input CreateDiscountCodeInput) (*models.DiscountCode, error)
	Get(ctx context.Context, codeID uuid.UUID) (*models.DiscountCode, error)
	List(ctx context.Context, params pagination.Params, filters DiscountCodeFilters) ([]models.DiscountCode, *pagination.Meta, error)
	Update(ctx context.Context, input UpdateDiscountCodeInput) (*models.DiscountCode, error)
	Delete(ctx context.Context, codeID uuid.UUID) error
	Validate(ctx context.Context, code string, subtotal int64) (*Redemption, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, subtotal int64) (*Redemption, error)
}

type service struct {
	repo Repository
}

// NewService builds a discount code service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateDiscountCodeInput) (*models.DiscountCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateDiscountValue(input.DiscountType, input.DiscountValue); err != nil {
		return nil, err
	}
	if input.MinOrderAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order amount must not be negative")
	}
	if input.MaxDiscountAmount != nil && *input.MaxDiscountAmount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max discount amount must not be negative")
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
	}
	if !input.ValidUntil.After(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be after valid_from")
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check code uniqueness")
	}

	record := &models.DiscountCode{
		Code:              code,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		DiscountType:      input.DiscountType,
		DiscountValue:     input.DiscountValue,
		MinOrderAmount:    input.MinOrderAmount,
		MaxDiscountAmount: input.MaxDiscountAmount,
		UsageLimit:        input.UsageLimit,
		IsActive:          true,
		ValidFrom:         input.ValidFrom,
		ValidUntil:        input.ValidUntil,
		CreatedBy:         input.ActorUserID,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discount code")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, codeID uuid.UUID) (*models.DiscountCode, error) {
	if codeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code id required")
	}
	record, err := s.repo.FindByID(ctx, codeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount code")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters DiscountCodeFilters) ([]models.DiscountCode, *pagination.Meta, error) {
	params = params.Normalize()
	codes, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discount codes")
	}
	meta := pagination.NewMeta(params, total)
	return codes, &meta, nil
}

func (s *service) Update(ctx context.Context, input UpdateDiscountCodeInput) (*models.DiscountCode, error) {
	record, err := s.Get(ctx, input.CodeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	targetType := record.DiscountType
	if input.DiscountType != nil {
		targetType = *input.DiscountType
		updates["discount_type"] = *input.DiscountType
	}
	targetValue := record.DiscountValue
	if input.DiscountValue != nil {
		targetValue = *input.DiscountValue
		updates["discount_value"] = *input.DiscountValue
	}
	if input.DiscountType != nil || input.DiscountValue != nil {
		if err := validateDiscountValue(targetType, targetValue); err != nil {
			return nil, err
		}
	}

	if input.MinOrderAmount != nil {
		if *input.MinOrderAmount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order amount must not be negative")
		}
		updates["min_order_amount"] = *input.MinOrderAmount
	}
	if input.MaxDiscountAmount != nil {
		if *input.MaxDiscountAmount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max discount amount must not be negative")
		}
		updates["max_discount_amount"] = *input.MaxDiscountAmount
	}
	if input.UsageLimit != nil {
		if *input.UsageLimit <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "usage limit must be positive")
		}
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	from := record.ValidFrom
	until := record.ValidUntil
	if input.ValidFrom != nil {
		from = *input.ValidFrom
		updates["valid_from"] = *input.ValidFrom
	}
	if input.ValidUntil != nil {
		until = *input.ValidUntil
		updates["valid_until"] = *input.ValidUntil
	}
	if !until.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid_until must be after valid_from")
	}

	if len(updates) == 0 {
		return record, nil
	}
	if err := s.repo.Update(ctx, record.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update discount code")
	}
	return s.Get(ctx, record.ID)
}

func (s *service) Delete(ctx context.Context, codeID uuid.UUID) error {
	if _, err := s.Get(ctx, codeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, codeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete discount code")
	}
	return nil
}

// Validate resolves the code without consuming a redemption.
func (s *service) Validate(ctx context.Context, code string, subtotal int64) (*Redemption, error) {
	record, err := s.lookupUsable(ctx, s.repo, code, subtotal)
	if err != nil {
		return nil, err
	}
	if record.UsageLimit != nil && record.UsedCount >= *record.UsageLimit {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code usage limit reached")
	}
	return redemptionFrom(record), nil
}

// Redeem resolves the code and consumes one redemption inside the caller's
// transaction. The usage increment is guarded so concurrent redemptions
// cannot exceed the limit.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string, subtotal int64) (*Redemption, error) {
	repo := s.repo.WithTx(tx)
	record, err := s.lookupUsable(ctx, repo, code, subtotal)
	if err != nil {
		return nil, err
	}
	ok, err := repo.IncrementUsage(ctx, record.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume discount code")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "discount code usage limit reached")
	}
	return redemptionFrom(record), nil
}

func (s *service) lookupUsable(ctx context.Context, repo Repository, code string, subtotal int64) (*models.DiscountCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}
	if subtotal < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}

	record, err := repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount code")
	}

	if !record.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "discount code is inactive")
	}
	now := time.Now()
	if now.Before(record.ValidFrom) || now.After(record.ValidUntil) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "discount code is outside its validity window")
	}
	if subtotal < record.MinOrderAmount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order subtotal below code minimum").
			WithDetails(map[string]any{"min_order_amount": record.MinOrderAmount})
	}
	return record, nil
}

func redemptionFrom(record *models.DiscountCode) *Redemption {
	return &Redemption{
		CodeID:    record.ID,
		Code:      record.Code,
		Type:      record.DiscountType,
		Value:     record.DiscountValue,
		MaxAmount: record.MaxDiscountAmount,
	}
}

var oneHundred = decimal.NewFromInt(100)

func validateDiscountValue(discountType enums.DiscountType, value decimal.Decimal) error {
	if !discountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown discount type")
	}
	if value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}
	if discountType == enums.DiscountTypePercentage && value.GreaterThan(oneHundred) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage must not exceed 100")
	}
	return nil
}
