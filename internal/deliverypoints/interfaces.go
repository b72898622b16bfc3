package deliverypoints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

// Repository defines persistence operations for delivery points.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, point *models.DeliveryPoint) (*models.DeliveryPoint, error)
	Update(ctx context.Context, pointID uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, pointID uuid.UUID) (*models.DeliveryPoint, error)
	ListActive(ctx context.Context) ([]models.DeliveryPoint, error)
	ListAll(ctx context.Context) ([]models.DeliveryPoint, error)
}
