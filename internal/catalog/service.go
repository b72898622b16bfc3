package catalog

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalogue management for producers and their products.
type Service interface {
	CreateProducer(ctx context.Context, input CreateProducerInput) (*models.Producer, error)
	UpdateProducer(ctx context.Context, producerID uuid.UUID, input UpdateProducerInput) error
	SetProducerActive(ctx context.Context, producerID uuid.UUID, active bool) error
	GetProducer(ctx context.Context, producerID uuid.UUID) (*models.Producer, error)
	ListProducers(ctx context.Context) ([]ProducerSummary, error)
	ListActiveProducers(ctx context.Context) ([]models.Producer, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) error
	SetProductActive(ctx context.Context, productID uuid.UUID, active bool) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalogue service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProducer(ctx context.Context, input CreateProducerInput) (*models.Producer, error) {
	if err := validateName(input.Name, "producer name"); err != nil {
		return nil, err
	}
	if err := validateOptionalEmail(input.ContactEmail); err != nil {
		return nil, err
	}

	producer := &models.Producer{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Location:     input.Location,
		ContactEmail: input.ContactEmail,
		IsActive:     true,
	}
	created, err := s.repo.CreateProducer(ctx, producer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create producer")
	}
	return created, nil
}

func (s *service) UpdateProducer(ctx context.Context, producerID uuid.UUID, input UpdateProducerInput) error {
	if producerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "producer id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if err := validateName(*input.Name, "producer name"); err != nil {
			return err
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.ContactEmail != nil {
		if err := validateOptionalEmail(input.ContactEmail); err != nil {
			return err
		}
		updates["contact_email"] = *input.ContactEmail
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := s.mustFindProducer(ctx, producerID); err != nil {
		return err
	}
	if err := s.repo.UpdateProducer(ctx, producerID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update producer")
	}
	return nil
}

func (s *service) SetProducerActive(ctx context.Context, producerID uuid.UUID, active bool) error {
	if producerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "producer id required")
	}
	if _, err := s.mustFindProducer(ctx, producerID); err != nil {
		return err
	}
	if err := s.repo.UpdateProducer(ctx, producerID, map[string]any{"is_active": active}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update producer state")
	}
	return nil
}

func (s *service) GetProducer(ctx context.Context, producerID uuid.UUID) (*models.Producer, error) {
	if producerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "producer id required")
	}
	return s.mustFindProducer(ctx, producerID)
}

func (s *service) ListProducers(ctx context.Context) ([]ProducerSummary, error) {
	summaries, err := s.repo.ListProducerSummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list producers")
	}
	return summaries, nil
}

func (s *service) ListActiveProducers(ctx context.Context) ([]models.Producer, error) {
	producers, err := s.repo.ListActiveProducers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active producers")
	}
	return producers, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.ProducerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "producer id required")
	}
	if err := validateName(input.Name, "product name"); err != nil {
		return nil, err
	}
	if !input.UnitType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit type")
	}
	if err := validatePositive(input.UnitQuantity, "unit quantity"); err != nil {
		return nil, err
	}
	if err := validatePositive(input.PriceProducer, "producer price"); err != nil {
		return nil, err
	}
	if err := validatePositive(input.PriceWithTransport, "price with transport"); err != nil {
		return nil, err
	}

	if _, err := s.mustFindProducer(ctx, input.ProducerID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ProducerID:         input.ProducerID,
		Name:               strings.TrimSpace(input.Name),
		Description:        input.Description,
		UnitType:           input.UnitType,
		UnitQuantity:       input.UnitQuantity,
		PriceProducer:      input.PriceProducer,
		PriceWithTransport: input.PriceWithTransport,
		IsActive:           true,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if err := validateName(*input.Name, "product name"); err != nil {
			return err
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.UnitType != nil {
		if !input.UnitType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid unit type")
		}
		updates["unit_type"] = *input.UnitType
	}
	if input.UnitQuantity != nil {
		if err := validatePositive(*input.UnitQuantity, "unit quantity"); err != nil {
			return err
		}
		updates["unit_quantity"] = *input.UnitQuantity
	}
	if input.PriceProducer != nil {
		if err := validatePositive(*input.PriceProducer, "producer price"); err != nil {
			return err
		}
		updates["price_producer"] = *input.PriceProducer
	}
	if input.PriceWithTransport != nil {
		if err := validatePositive(*input.PriceWithTransport, "price with transport"); err != nil {
			return err
		}
		updates["price_with_transport"] = *input.PriceWithTransport
	}
	if len(updates) == 0 {
		return nil
	}

	if _, err := s.mustFindProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.UpdateProduct(ctx, productID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return nil
}

func (s *service) SetProductActive(ctx context.Context, productID uuid.UUID, active bool) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if _, err := s.mustFindProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.UpdateProduct(ctx, productID, map[string]any{"is_active": active}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product state")
	}
	return nil
}

// DeleteProduct removes a catalogue entry. Products referenced by any group
// order keep their price history, so the delete is refused and deactivation
// is the supported path.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := findProduct(ctx, repo, productID); err != nil {
			return err
		}
		refs, err := repo.CountProductGroupOrderRefs(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count product references")
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product in use, deactivate it instead")
		}
		if err := repo.DeleteProduct(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) mustFindProducer(ctx context.Context, producerID uuid.UUID) (*models.Producer, error) {
	producer, err := s.repo.FindProducerByID(ctx, producerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "producer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load producer")
	}
	return producer, nil
}

func (s *service) mustFindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return findProduct(ctx, s.repo, productID)
}

func findProduct(ctx context.Context, repo Repository, productID uuid.UUID) (*models.Product, error) {
	product, err := repo.FindProductByID(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateName(name, field string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be at least 2 characters")
	}
	return nil
}

func validateOptionalEmail(email *string) error {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid contact email")
	}
	return nil
}

func validatePositive(value decimal.Decimal, field string) error {
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" must be greater than zero")
	}
	return nil
}
