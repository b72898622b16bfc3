package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

// Entry is one member order in the payment follow-up list.
type Entry struct {
	OrderID       uuid.UUID           `json:"order_id"`
	BuyerName     string              `json:"buyer_name"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	IsProxy       bool                `json:"is_proxy"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Repository defines persistence operations for payment follow-up.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]models.MemberOrder, error)
	FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error
}

// Service tracks who has paid what. Payment state is bookkeeping only; it
// never blocks editing or canceling an order.
type Service interface {
	ListForGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]Entry, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error
}

type service struct {
	repo Repository
}

// NewService builds a payment tracking service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]Entry, error) {
	if groupOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	orders, err := s.repo.ListByGroupOrder(ctx, groupOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list member orders")
	}

	entries := make([]Entry, 0, len(orders))
	for _, order := range orders {
		entries = append(entries, Entry{
			OrderID:       order.ID,
			BuyerName:     order.BuyerDisplayName(),
			TotalAmount:   order.TotalAmount,
			PaymentStatus: order.PaymentStatus,
			IsProxy:       order.ProxyBuyerName != nil,
			CreatedAt:     order.CreatedAt,
		})
	}
	return entries, nil
}

func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	if _, err := s.repo.FindMemberOrder(ctx, orderID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member order")
	}
	if err := s.repo.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return nil
}
