package payments

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

type stubPaymentsRepo struct {
	orders        []models.MemberOrder
	order         *models.MemberOrder
	updatedStatus enums.PaymentStatus
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubPaymentsRepo) ListByGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]models.MemberOrder, error) {
	return s.orders, nil
}

func (s *stubPaymentsRepo) FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error) {
	if s.order == nil || s.order.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubPaymentsRepo) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	s.updatedStatus = status
	return nil
}

func TestListForGroupOrder(t *testing.T) {
	proxyName := "Mme Dupont"
	repo := &stubPaymentsRepo{
		orders: []models.MemberOrder{
			{
				ID:            uuid.New(),
				User:          &models.User{Name: "Alice Martin"},
				TotalAmount:   decimal.RequireFromString("31.00"),
				PaymentStatus: enums.PaymentStatusNotPaid,
			},
			{
				ID:             uuid.New(),
				ProxyBuyerName: &proxyName,
				TotalAmount:    decimal.RequireFromString("12.40"),
				PaymentStatus:  enums.PaymentStatusPaid,
			},
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	entries, err := svc.ListForGroupOrder(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two entries got %d", len(entries))
	}
	if entries[0].BuyerName != "Alice Martin" || entries[0].IsProxy {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[1].BuyerName != "Mme Dupont" || !entries[1].IsProxy {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
}

func TestSetStatus(t *testing.T) {
	orderID := uuid.New()
	repo := &stubPaymentsRepo{order: &models.MemberOrder{ID: orderID}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	if err := svc.SetStatus(context.Background(), orderID, enums.PaymentStatusPartial); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.updatedStatus != enums.PaymentStatusPartial {
		t.Fatalf("expected partial got %s", repo.updatedStatus)
	}

	// any transition is allowed, including back to NOT_PAID
	if err := svc.SetStatus(context.Background(), orderID, enums.PaymentStatusNotPaid); err != nil {
		t.Fatalf("expected success got %v", err)
	}
}

func TestSetStatusValidation(t *testing.T) {
	svc, err := NewService(&stubPaymentsRepo{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	err = svc.SetStatus(context.Background(), uuid.New(), enums.PaymentStatus("SETTLED"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}

	err = svc.SetStatus(context.Background(), uuid.New(), enums.PaymentStatusPaid)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}
