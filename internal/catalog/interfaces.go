package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
)

// Repository defines persistence operations for producers and products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProducer(ctx context.Context, producer *models.Producer) (*models.Producer, error)
	UpdateProducer(ctx context.Context, producerID uuid.UUID, updates map[string]any) error
	FindProducerByID(ctx context.Context, producerID uuid.UUID) (*models.Producer, error)
	ListProducerSummaries(ctx context.Context) ([]ProducerSummary, error)
	ListActiveProducers(ctx context.Context) ([]models.Producer, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error
	FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	CountProductGroupOrderRefs(ctx context.Context, productID uuid.UUID) (int64, error)
}
