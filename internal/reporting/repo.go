package reporting

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reporting repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindGroupOrderDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Producer").
		Preload("Products.Product").
		Preload("MemberOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("MemberOrders.User").
		Preload("MemberOrders.DeliveryPoint").
		Preload("MemberOrders.OrderLines.GroupOrderProduct.Product").
		Where("id = ?", groupOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
