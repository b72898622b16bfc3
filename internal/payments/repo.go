package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]models.MemberOrder, error) {
	var orders []models.MemberOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("group_order_id = ?", groupOrderID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error) {
	var order models.MemberOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.MemberOrder{}).
		Where("id = ?", orderID).
		Update("payment_status", status).Error
}
