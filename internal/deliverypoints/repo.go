package deliverypoints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a delivery-point repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, point *models.DeliveryPoint) (*models.DeliveryPoint, error) {
	if err := r.db.WithContext(ctx).Create(point).Error; err != nil {
		return nil, err
	}
	return point, nil
}

func (r *repository) Update(ctx context.Context, pointID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DeliveryPoint{}).
		Where("id = ?", pointID).
		Updates(updates).Error
}

func (r *repository) FindByID(ctx context.Context, pointID uuid.UUID) (*models.DeliveryPoint, error) {
	var point models.DeliveryPoint
	err := r.db.WithContext(ctx).
		Where("id = ?", pointID).
		First(&point).Error
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.DeliveryPoint, error) {
	var points []models.DeliveryPoint
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("commune ASC, name ASC").
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.DeliveryPoint, error) {
	var points []models.DeliveryPoint
	err := r.db.WithContext(ctx).
		Order("commune ASC, name ASC").
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
