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

type repository struct {
	db *gorm.DB
}

// NewRepository builds a group-order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.GroupOrder) (*models.GroupOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", groupOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindDetail(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Producer").
		Preload("Products.Product").
		Preload("DeliveryPoints").
		Preload("PaymentReferents").
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

func (r *repository) ListSummaries(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	err := r.db.WithContext(ctx).
		Table("group_orders g").
		Select(`g.id, g.title, p.name AS producer_name, g.status,
			g.open_date, g.close_date, g.delivery_date, g.created_at,
			(SELECT COUNT(*) FROM member_orders m WHERE m.group_order_id = g.id) AS member_order_count`).
		Joins("JOIN producers p ON p.id = g.producer_id").
		Order("g.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) ListOpen(ctx context.Context, now time.Time) ([]models.GroupOrder, error) {
	var orders []models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Producer").
		Preload("Products.Product").
		Preload("DeliveryPoints").
		Where("status = ? AND close_date > ?", enums.GroupOrderStatusOpen, now).
		Order("close_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateFields(ctx context.Context, groupOrderID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id = ?", groupOrderID).
		Updates(updates).Error
}

func (r *repository) UpdateStatus(ctx context.Context, groupOrderID uuid.UUID, status enums.GroupOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id = ?", groupOrderID).
		Update("status", status).Error
}

func (r *repository) Delete(ctx context.Context, groupOrderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", groupOrderID).
		Delete(&models.GroupOrder{}).Error
}

func (r *repository) AddProducts(ctx context.Context, rows []models.GroupOrderProduct) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) RemoveProducts(ctx context.Context, groupOrderID uuid.UUID, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("group_order_id = ? AND product_id IN ?", groupOrderID, productIDs).
		Delete(&models.GroupOrderProduct{}).Error
}

func (r *repository) UpdateProductOverride(ctx context.Context, groupOrderProductID uuid.UUID, override *decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.GroupOrderProduct{}).
		Where("id = ?", groupOrderProductID).
		Update("price_override", override).Error
}

func (r *repository) ListProducts(ctx context.Context, groupOrderID uuid.UUID) ([]models.GroupOrderProduct, error) {
	var rows []models.GroupOrderProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("group_order_id = ?", groupOrderID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ReplaceDeliveryPoints(ctx context.Context, groupOrderID uuid.UUID, pointIDs []uuid.UUID) error {
	order := models.GroupOrder{ID: groupOrderID}
	points := make([]models.DeliveryPoint, 0, len(pointIDs))
	for _, id := range pointIDs {
		points = append(points, models.DeliveryPoint{ID: id})
	}
	return r.db.WithContext(ctx).
		Model(&order).
		Association("DeliveryPoints").
		Replace(points)
}

func (r *repository) ReplacePaymentReferents(ctx context.Context, groupOrderID uuid.UUID, userIDs []uuid.UUID) error {
	order := models.GroupOrder{ID: groupOrderID}
	referents := make([]models.User, 0, len(userIDs))
	for _, id := range userIDs {
		referents = append(referents, models.User{ID: id})
	}
	return r.db.WithContext(ctx).
		Model(&order).
		Association("PaymentReferents").
		Replace(referents)
}

func (r *repository) CountMemberOrders(ctx context.Context, groupOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MemberOrder{}).
		Where("group_order_id = ?", groupOrderID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountOrderLinesForProducts(ctx context.Context, groupOrderID uuid.UUID, productIDs []uuid.UUID) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderLine{}).
		Joins("JOIN group_order_products gop ON gop.id = order_lines.group_order_product_id").
		Where("gop.group_order_id = ? AND gop.product_id IN ?", groupOrderID, productIDs).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) FindActiveProducerProducts(ctx context.Context, producerID uuid.UUID, productIDs []uuid.UUID) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("producer_id = ? AND is_active = ? AND id IN ?", producerID, true, productIDs).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
