package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

// Repository defines persistence operations for member orders and lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateMemberOrder(ctx context.Context, order *models.MemberOrder) (*models.MemberOrder, error)
	CreateOrderLines(ctx context.Context, lines []models.OrderLine) error
	FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error)
	FindGroupOrderForOrdering(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error)
	ExistsForUser(ctx context.Context, groupOrderID, userID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error)
	UpdateMemberOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error
	DeleteMemberOrder(ctx context.Context, orderID uuid.UUID) error
}
