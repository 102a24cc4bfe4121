package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/db/models"
	"github.com/minhvu-dev/foodpos-backend/pkg/pagination"
)

// Repository defines persistence operations for dashboard users.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindGuestByPhone(ctx context.Context, phone string) (*models.User, error)
	List(ctx context.Context, params pagination.Params, filters UserFilters) ([]models.User, int64, error)
	Update(ctx context.Context, userID uuid.UUID, updates map[string]any) error
}
