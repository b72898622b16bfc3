package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

type stubCatalogRepo struct {
	producer        *models.Producer
	product         *models.Product
	refCount        int64
	producerUpdates map[string]any
	productUpdates  map[string]any
	deletedProduct  uuid.UUID
	createdProduct  *models.Product
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubCatalogRepo) CreateProducer(ctx context.Context, producer *models.Producer) (*models.Producer, error) {
	if producer.ID == uuid.Nil {
		producer.ID = uuid.New()
	}
	s.producer = producer
	return producer, nil
}

func (s *stubCatalogRepo) UpdateProducer(ctx context.Context, producerID uuid.UUID, updates map[string]any) error {
	s.producerUpdates = updates
	return nil
}

func (s *stubCatalogRepo) FindProducerByID(ctx context.Context, producerID uuid.UUID) (*models.Producer, error) {
	if s.producer == nil || s.producer.ID != producerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.producer, nil
}

func (s *stubCatalogRepo) ListProducerSummaries(ctx context.Context) ([]ProducerSummary, error) {
	return nil, nil
}

func (s *stubCatalogRepo) ListActiveProducers(ctx context.Context) ([]models.Producer, error) {
	return nil, nil
}

func (s *stubCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.createdProduct = product
	return product, nil
}

func (s *stubCatalogRepo) UpdateProduct(ctx context.Context, productID uuid.UUID, updates map[string]any) error {
	s.productUpdates = updates
	return nil
}

func (s *stubCatalogRepo) FindProductByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != productID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func (s *stubCatalogRepo) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	s.deletedProduct = productID
	return nil
}

func (s *stubCatalogRepo) CountProductGroupOrderRefs(ctx context.Context, productID uuid.UUID) (int64, error) {
	return s.refCount, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateProducer(t *testing.T) {
	repo := &stubCatalogRepo{}
	svc := newTestService(t, repo)

	producer, err := svc.CreateProducer(context.Background(), CreateProducerInput{Name: "  Ferme du Verger  "})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if producer.Name != "Ferme du Verger" {
		t.Fatalf("expected trimmed name got %q", producer.Name)
	}
	if !producer.IsActive {
		t.Fatal("expected new producer active")
	}
}

func TestCreateProducerRejectsShortName(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.CreateProducer(context.Background(), CreateProducerInput{Name: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateProducerRejectsBadEmail(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})
	email := "not-an-email"

	_, err := svc.CreateProducer(context.Background(), CreateProducerInput{Name: "Ferme", ContactEmail: &email})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	producerID := uuid.New()
	repo := &stubCatalogRepo{producer: &models.Producer{ID: producerID, Name: "Ferme"}}
	svc := newTestService(t, repo)

	product, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProducerID:         producerID,
		Name:               "Pommes Gala",
		UnitType:           enums.UnitTypeCrate,
		UnitQuantity:       decimal.RequireFromString("5"),
		PriceProducer:      decimal.RequireFromString("12.00"),
		PriceWithTransport: decimal.RequireFromString("15.50"),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !product.IsActive {
		t.Fatal("expected new product active")
	}
	if repo.createdProduct == nil {
		t.Fatal("expected product persisted")
	}
}

func TestCreateProductValidation(t *testing.T) {
	producerID := uuid.New()
	repo := &stubCatalogRepo{producer: &models.Producer{ID: producerID}}
	svc := newTestService(t, repo)

	base := CreateProductInput{
		ProducerID:         producerID,
		Name:               "Pommes",
		UnitType:           enums.UnitTypeKg,
		UnitQuantity:       decimal.RequireFromString("1"),
		PriceProducer:      decimal.RequireFromString("2.00"),
		PriceWithTransport: decimal.RequireFromString("2.50"),
	}

	bad := base
	bad.UnitType = enums.UnitType("pallet")
	if _, err := svc.CreateProduct(context.Background(), bad); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unit type got %v", err)
	}

	bad = base
	bad.UnitQuantity = decimal.Zero
	if _, err := svc.CreateProduct(context.Background(), bad); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for quantity got %v", err)
	}

	bad = base
	bad.PriceWithTransport = decimal.RequireFromString("-1")
	if _, err := svc.CreateProduct(context.Background(), bad); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for price got %v", err)
	}
}

func TestCreateProductUnknownProducer(t *testing.T) {
	svc := newTestService(t, &stubCatalogRepo{})

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProducerID:         uuid.New(),
		Name:               "Pommes",
		UnitType:           enums.UnitTypeKg,
		UnitQuantity:       decimal.RequireFromString("1"),
		PriceProducer:      decimal.RequireFromString("2.00"),
		PriceWithTransport: decimal.RequireFromString("2.50"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestDeleteProductInUse(t *testing.T) {
	productID := uuid.New()
	repo := &stubCatalogRepo{
		product:  &models.Product{ID: productID, Name: "Pommes"},
		refCount: 2,
	}
	svc := newTestService(t, repo)

	err := svc.DeleteProduct(context.Background(), productID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
	if repo.deletedProduct != uuid.Nil {
		t.Fatal("expected no delete issued")
	}
}

func TestDeleteProductUnreferenced(t *testing.T) {
	productID := uuid.New()
	repo := &stubCatalogRepo{product: &models.Product{ID: productID, Name: "Pommes"}}
	svc := newTestService(t, repo)

	if err := svc.DeleteProduct(context.Background(), productID); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.deletedProduct != productID {
		t.Fatal("expected delete issued")
	}
}

func TestSetProductActive(t *testing.T) {
	productID := uuid.New()
	repo := &stubCatalogRepo{product: &models.Product{ID: productID, IsActive: true}}
	svc := newTestService(t, repo)

	if err := svc.SetProductActive(context.Background(), productID, false); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if active, ok := repo.productUpdates["is_active"].(bool); !ok || active {
		t.Fatalf("expected is_active false update got %v", repo.productUpdates)
	}
}
