package shippers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	pkgerrors "github.com/minhvu-dev/foodpos-backend/pkg/errors"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

type stubShippersRepo struct {
	shippers map[uuid.UUID]*models.Shipper

	openDeliveries int64
}

func newStubShippersRepo() *stubShippersRepo {
	return &stubShippersRepo{shippers: map[uuid.UUID]*models.Shipper{}}
}

func (s *stubShippersRepo) Create(ctx context.Context, shipper *models.Shipper) (*models.Shipper, error) {
	shipper.ID = uuid.New()
	s.shippers[shipper.ID] = shipper
	return shipper, nil
}

func (s *stubShippersRepo) FindByID(ctx context.Context, shipperID uuid.UUID) (*models.Shipper, error) {
	shipper, ok := s.shippers[shipperID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return shipper, nil
}

func (s *stubShippersRepo) List(ctx context.Context, params pagination.Params, filters ShipperFilters) ([]models.Shipper, int64, error) {
	out := make([]models.Shipper, 0, len(s.shippers))
	for _, shipper := range s.shippers {
		if filters.ActiveOnly && !shipper.IsActive {
			continue
		}
		out = append(out, *shipper)
	}
	return out, int64(len(out)), nil
}

func (s *stubShippersRepo) Update(ctx context.Context, shipperID uuid.UUID, updates map[string]any) error {
	shipper := s.shippers[shipperID]
	if name, ok := updates["name"].(string); ok {
		shipper.Name = name
	}
	if phone, ok := updates["phone"].(string); ok {
		shipper.Phone = phone
	}
	if active, ok := updates["is_active"].(bool); ok {
		shipper.IsActive = active
	}
	return nil
}

func (s *stubShippersRepo) CountOpenDeliveries(ctx context.Context, shipperID uuid.UUID) (int64, error) {
	return s.openDeliveries, nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestCreateShipper(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	shipper, err := svc.Create(context.Background(), CreateShipperInput{
		Name:  " Nguyen Van A ",
		Phone: "0901234567",
	})
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van A", shipper.Name)
	assert.True(t, shipper.IsActive)
}

func TestCreateShipperRejectsBlankFields(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	for _, input := range []CreateShipperInput{
		{Name: " ", Phone: "0901234567"},
		{Name: "Nguyen Van A", Phone: ""},
	} {
		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestListShippersActiveOnly(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	active, err := svc.Create(context.Background(), CreateShipperInput{Name: "A", Phone: "1"})
	require.NoError(t, err)
	inactive, err := svc.Create(context.Background(), CreateShipperInput{Name: "B", Phone: "2"})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(context.Background(), inactive.ID))

	shippers, meta, err := svc.List(context.Background(), pagination.Params{}, ShipperFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, shippers, 1)
	assert.Equal(t, active.ID, shippers[0].ID)
	assert.Equal(t, int64(1), meta.Total)
}

func TestUpdateShipper(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), CreateShipperInput{Name: "A", Phone: "1"})
	require.NoError(t, err)

	phone := "0907654321"
	updated, err := svc.Update(context.Background(), UpdateShipperInput{
		ShipperID: created.ID,
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "0907654321", updated.Phone)
	assert.Equal(t, "A", updated.Name)
}

func TestDeactivateShipperBlockedByOpenDeliveries(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), CreateShipperInput{Name: "A", Phone: "1"})
	require.NoError(t, err)

	repo.openDeliveries = 1
	err = svc.Deactivate(context.Background(), created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.True(t, repo.shippers[created.ID].IsActive)
}

func TestDeactivateShipperIdempotent(t *testing.T) {
	repo := newStubShippersRepo()
	svc := newTestService(t, repo)

	created, err := svc.Create(context.Background(), CreateShipperInput{Name: "A", Phone: "1"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	assert.False(t, repo.shippers[created.ID].IsActive)
}
