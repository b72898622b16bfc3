package deliverypoints

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

// CreateInput captures the fields for a new pickup location.
type CreateInput struct {
	Name    string
	Address string
	Commune string
}

// UpdateInput carries optional fields; nil means unchanged.
type UpdateInput struct {
	Name    *string
	Address *string
	Commune *string
}

// Service exposes pickup-location management and the member-facing listing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.DeliveryPoint, error)
	Update(ctx context.Context, pointID uuid.UUID, input UpdateInput) error
	SetActive(ctx context.Context, pointID uuid.UUID, active bool) error
	ListActive(ctx context.Context) ([]models.DeliveryPoint, error)
	ListAll(ctx context.Context) ([]models.DeliveryPoint, error)
}

type service struct {
	repo Repository
}

// NewService builds a delivery-point service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery point repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.DeliveryPoint, error) {
	for field, value := range map[string]string{
		"name":    input.Name,
		"address": input.Address,
		"commune": input.Commune,
	} {
		if len(strings.TrimSpace(value)) < 2 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be at least 2 characters")
		}
	}

	point := &models.DeliveryPoint{
		Name:     strings.TrimSpace(input.Name),
		Address:  strings.TrimSpace(input.Address),
		Commune:  strings.TrimSpace(input.Commune),
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, point)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery point")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, pointID uuid.UUID, input UpdateInput) error {
	if pointID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery point id required")
	}

	updates := map[string]any{}
	for field, value := range map[string]*string{
		"name":    input.Name,
		"address": input.Address,
		"commune": input.Commune,
	} {
		if value == nil {
			continue
		}
		if len(strings.TrimSpace(*value)) < 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" must be at least 2 characters")
		}
		updates[field] = strings.TrimSpace(*value)
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.mustExist(ctx, pointID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, pointID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery point")
	}
	return nil
}

func (s *service) SetActive(ctx context.Context, pointID uuid.UUID, active bool) error {
	if pointID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery point id required")
	}
	if err := s.mustExist(ctx, pointID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, pointID, map[string]any{"is_active": active}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update delivery point state")
	}
	return nil
}

func (s *service) ListActive(ctx context.Context) ([]models.DeliveryPoint, error) {
	points, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery points")
	}
	return points, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.DeliveryPoint, error) {
	points, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery points")
	}
	return points, nil
}

func (s *service) mustExist(ctx context.Context, pointID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, pointID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "delivery point not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery point")
	}
	return nil
}
