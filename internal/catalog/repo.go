package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalogue repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateProducer(ctx context.Context, producer *models.Producer) (*models.Producer, error) {
	if err := r.db.WithContext(ctx).Create(producer).Error; err != nil {
		return nil, err
	}
	return producer, nil
}

func (r *repository) UpdateProducer(ctx context.Context, producerID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Producer{}).
		Where("id = ?", producerID).
		Updates(updates).Error
}

func (r *repository) FindProducerByID(ctx context.Context, producerID uuid.UUID) (*models.Producer, error) {
	var producer models.Producer
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Where("id = ?", producerID).
		First(&producer).Error
	if err != nil {
		return nil, err
	}
	return &producer, nil
}

func (r *repository) ListProducerSummaries(ctx context.Context) ([]ProducerSummary, error) {
	var summaries []ProducerSummary
	err := r.db.WithContext(ctx).
		Table("producers p").
		Select(`p.id, p.name, p.location, p.contact_email, p.is_active, p.created_at,
			(SELECT COUNT(*) FROM products pr WHERE pr.producer_id = p.id) AS product_count,
			(SELECT COUNT(*) FROM group_orders g WHERE g.producer_id = p.id) AS group_order_count`).
		Order("p.name ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) ListActiveProducers(ctx context.Context) ([]models.Producer, error) {
	var producers []models.Producer
	err := r.db.WithContext(ctx).
		Preload("Products", "is_active = ?", true).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&producers).Error
	if err != nil {
		return nil, err
	}
	return producers, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error
}

func (r *repository) FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&models.Product{}).Error
}

func (r *repository) CountProductGroupOrderRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupOrderProduct{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
