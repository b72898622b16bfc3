package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	"github.com/team-fruitee/fruitee-backend/pkg/pagination"
)

// Repository defines persistence operations for cooperative members.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context, filters ListFilters, limit int, cursor *pagination.Cursor) ([]models.User, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.UserStatus) error
}
