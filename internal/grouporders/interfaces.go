package grouporders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// Repository defines persistence operations for group orders and their
// product/delivery-point/payment-referent sets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.GroupOrder) (*models.GroupOrder, error)
	FindByID(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error)
	FindDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error)
	ListSummaries(ctx context.Context) ([]Summary, error)
	ListOpen(ctx context.Context, now time.Time) ([]models.GroupOrder, error)
	UpdateFields(ctx context.Context, groupOrderID uuid.UUID, updates map[string]any) error
	UpdateStatus(ctx context.Context, groupOrderID uuid.UUID, status enums.GroupOrderStatus) error
	Delete(ctx context.Context, groupOrderID uuid.UUID) error
	AddProducts(ctx context.Context, rows []models.GroupOrderProduct) error
	RemoveProducts(ctx context.Context, groupOrderID uuid.UUID, productIDs []uuid.UUID) error
	UpdateProductOverride(ctx context.Context, groupOrderProductID uuid.UUID, override *decimal.Decimal) error
	ListProducts(ctx context.Context, groupOrderID uuid.UUID) ([]models.GroupOrderProduct, error)
	ReplaceDeliveryPoints(ctx context.Context, groupOrderID uuid.UUID, pointIDs []uuid.UUID) error
	ReplacePaymentReferents(ctx context.Context, groupOrderID uuid.UUID, userIDs []uuid.UUID) error
	CountMemberOrders(ctx context.Context, groupOrderID uuid.UUID) (int64, error)
	CountOrderLinesForProducts(ctx context.Context, groupOrderID uuid.UUID, productIDs []uuid.UUID) (int64, error)
	FindActiveProducerProducts(ctx context.Context, producerID uuid.UUID, productIDs []uuid.UUID) ([]models.Product, error)
}
