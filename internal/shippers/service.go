package shippers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Service defines shipper roster management.
type Service interface {
	Create(ctx context.Context, input CreateShipperInput) (*models.Shipper, error)
	Get(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error)
	List(ctx context.Context, params pagination.Params, filters ShipperFilters) ([]models.Shipper, *pagination.Meta, error)
	Update(ctx context.Context, input UpdateShipperInput) (*models.Shipper, error)
	Deactivate(ctx context.Context, shipperID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a shipper service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shippers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateShipperInput) (*models.Shipper, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper name required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper phone required")
	}

	shipper := &models.Shipper{
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Email:    input.Email,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, shipper)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipper")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error) {
	if shipperID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper id required")
	}
	shipper, err := s.repo.FindByID(ctx, shipperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipper not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipper")
	}
	return shipper, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ShipperFilters) ([]models.Shipper, *pagination.Meta, error) {
	params = params.Normalize()
	shippers, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shippers")
	}
	meta := pagination.NewMeta(params, total)
	return shippers, &meta, nil
}

func (s *service) Update(ctx context.Context, input UpdateShipperInput) (*models.Shipper, error) {
	shipper, err := s.Get(ctx, input.ShipperID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper name required")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipper phone required")
		}
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, shipper.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipper")
		}
	}
	return s.Get(ctx, shipper.ID)
}

// Deactivate pulls a shipper from the roster. Shippers with deliveries still
// in flight cannot be deactivated.
func (s *service) Deactivate(ctx context.Context, shipperID uuid.UUID) error {
	shipper, err := s.Get(ctx, shipperID)
	if err != nil {
		return err
	}
	if !shipper.IsActive {
		return nil
	}

	open, err := s.repo.CountOpenDeliveries(ctx, shipper.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open deliveries")
	}
	if open > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "shipper has deliveries in flight").
			WithDetails(map[string]any{"open_deliveries": open})
	}

	if err := s.repo.Update(ctx, shipper.ID, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate shipper")
	}
	return nil
}
