package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a member-order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateMemberOrder(ctx context.Context, order *models.MemberOrder) (*models.MemberOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repository) FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error) {
	var order models.MemberOrder
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("DeliveryPoint").
		Preload("OrderLines.GroupOrderProduct.Product").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindGroupOrderForOrdering(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Products.Product").
		Preload("DeliveryPoints").
		Where("id = ?", groupOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ExistsForUser(ctx context.Context, groupOrderID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MemberOrder{}).
		Where("group_order_id = ? AND user_id = ?", groupOrderID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error) {
	var orders []models.MemberOrder
	err := r.db.WithContext(ctx).
		Preload("GroupOrder.Producer").
		Preload("DeliveryPoint").
		Preload("OrderLines.GroupOrderProduct.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateMemberOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MemberOrder{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *repository) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("member_order_id = ?", orderID).
		Delete(&models.OrderLine{}).Error
}

func (r *repository) DeleteMemberOrder(ctx context.Context, orderID uuid.UUID) error {
	if err := r.DeleteOrderLines(ctx, orderID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("id = ?", orderID).
		Delete(&models.MemberOrder{}).Error
}
