package deliverypoints

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

type stubPointRepo struct {
	point   *models.DeliveryPoint
	updates map[string]any
	created *models.DeliveryPoint
}

func (s *stubPointRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPointRepo) Create(ctx context.Context, point *models.DeliveryPoint) (*models.DeliveryPoint, error) {
	if point.ID == uuid.Nil {
		point.ID = uuid.New()
	}
	s.created = point
	return point, nil
}

func (s *stubPointRepo) Update(ctx context.Context, pointID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubPointRepo) FindByID(ctx context.Context, pointID uuid.UUID) (*models.DeliveryPoint, error) {
	if s.point == nil || s.point.ID != pointID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.point, nil
}

func (s *stubPointRepo) ListActive(ctx context.Context) ([]models.DeliveryPoint, error) {
	return nil, nil
}

func (s *stubPointRepo) ListAll(ctx context.Context) ([]models.DeliveryPoint, error) {
	return nil, nil
}

func TestCreateDeliveryPoint(t *testing.T) {
	repo := &stubPointRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	point, err := svc.Create(context.Background(), CreateInput{
		Name:    " Halle du marché ",
		Address: "3 rue des Tilleuls",
		Commune: "Saint-Julien",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if point.Name != "Halle du marché" {
		t.Fatalf("expected trimmed name got %q", point.Name)
	}
	if !point.IsActive {
		t.Fatal("expected new point active")
	}
}

func TestCreateDeliveryPointValidation(t *testing.T) {
	svc, err := NewService(&stubPointRepo{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{Name: "H", Address: "3 rue", Commune: "X"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestUpdateDeliveryPointNotFound(t *testing.T) {
	svc, err := NewService(&stubPointRepo{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	name := "Nouvelle halle"
	err = svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestSetDeliveryPointActive(t *testing.T) {
	pointID := uuid.New()
	repo := &stubPointRepo{point: &models.DeliveryPoint{ID: pointID, IsActive: true}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	if err := svc.SetActive(context.Background(), pointID, false); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if active, ok := repo.updates["is_active"].(bool); !ok || active {
		t.Fatalf("expected is_active false got %v", repo.updates)
	}
}
