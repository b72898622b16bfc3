package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/internal/notifications"
	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/pricing"
)

// memberOrderUniqueConstraint backs the one-order-per-member guard at the
// database level; races past the in-transaction check land here.
const memberOrderUniqueConstraint = "member_orders_group_order_id_user_id_key"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives member orders: members ordering for themselves and
// coordinators ordering on someone's behalf.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*models.MemberOrder, error)
	Edit(ctx context.Context, input EditInput) (*models.MemberOrder, error)
	Cancel(ctx context.Context, input CancelInput) error
	PlaceProxy(ctx context.Context, input PlaceProxyInput) (*models.MemberOrder, error)
	MyOrders(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error)
	Get(ctx context.Context, orderID, actorUserID uuid.UUID, actorIsCoord bool) (*models.MemberOrder, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifications.Notifier
	now      func() time.Time
}

// NewService builds a member-order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier notifications.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
	}, nil
}

func (s *service) Place(ctx context.Context, input PlaceInput) (*models.MemberOrder, error) {
	if input.GroupOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateLines(input.Lines); err != nil {
		return nil, err
	}

	var order *models.MemberOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		groupOrder, err := findGroupOrder(ctx, repo, input.GroupOrderID)
		if err != nil {
			return err
		}
		if err := ensureOpen(groupOrder); err != nil {
			return err
		}
		if err := ensureWindow(groupOrder, s.now()); err != nil {
			return err
		}
		if err := ensureDeliveryPoint(groupOrder, input.DeliveryPointID); err != nil {
			return err
		}

		exists, err := repo.ExistsForUser(ctx, input.GroupOrderID, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing order")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this group order")
		}

		lines, total, err := snapshotLines(groupOrder, input.Lines)
		if err != nil {
			return err
		}

		userID := input.UserID
		order = &models.MemberOrder{
			GroupOrderID:    input.GroupOrderID,
			UserID:          &userID,
			DeliveryPointID: input.DeliveryPointID,
			Notes:           input.Notes,
			PaymentStatus:   enums.PaymentStatusNotPaid,
			TotalAmount:     total,
		}
		if _, err := repo.CreateMemberOrder(ctx, order); err != nil {
			if pkgerrors.IsUniqueViolation(err, memberOrderUniqueConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this group order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member order")
		}
		for i := range lines {
			lines[i].MemberOrderID = order.ID
		}
		if err := repo.CreateOrderLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}
		order.OrderLines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderPlaced(ctx, notifications.OrderEvent{
		GroupOrderID: order.GroupOrderID,
		OrderID:      order.ID,
		BuyerName:    order.BuyerDisplayName(),
	})
	return order, nil
}

func (s *service) Edit(ctx context.Context, input EditInput) (*models.MemberOrder, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validateLines(input.Lines); err != nil {
		return nil, err
	}

	var order *models.MemberOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := findMemberOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := ensureActorMayManage(existing, input.ActorUserID, input.ActorIsCoord); err != nil {
			return err
		}

		groupOrder, err := findGroupOrder(ctx, repo, existing.GroupOrderID)
		if err != nil {
			return err
		}
		if err := ensureOpen(groupOrder); err != nil {
			return err
		}
		if err := ensureWindow(groupOrder, s.now()); err != nil {
			return err
		}

		deliveryPointID := existing.DeliveryPointID
		if input.DeliveryPointID != nil {
			deliveryPointID = *input.DeliveryPointID
		}
		if err := ensureDeliveryPoint(groupOrder, deliveryPointID); err != nil {
			return err
		}

		lines, total, err := snapshotLines(groupOrder, input.Lines)
		if err != nil {
			return err
		}

		if err := repo.DeleteOrderLines(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order lines")
		}
		for i := range lines {
			lines[i].MemberOrderID = existing.ID
		}
		if err := repo.CreateOrderLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace order lines")
		}

		updates := map[string]any{
			"total_amount":      total,
			"delivery_point_id": deliveryPointID,
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if err := repo.UpdateMemberOrder(ctx, existing.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member order")
		}

		existing.TotalAmount = total
		existing.DeliveryPointID = deliveryPointID
		if input.Notes != nil {
			existing.Notes = input.Notes
		}
		existing.OrderLines = lines
		order = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderUpdated(ctx, notifications.OrderEvent{
		GroupOrderID: order.GroupOrderID,
		OrderID:      order.ID,
		BuyerName:    order.BuyerDisplayName(),
	})
	return order, nil
}

func (s *service) Cancel(ctx context.Context, input CancelInput) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var event notifications.OrderEvent
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := findMemberOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if err := ensureActorMayManage(existing, input.ActorUserID, input.ActorIsCoord); err != nil {
			return err
		}

		groupOrder, err := findGroupOrder(ctx, repo, existing.GroupOrderID)
		if err != nil {
			return err
		}
		if err := ensureOpen(groupOrder); err != nil {
			return err
		}
		if err := ensureWindow(groupOrder, s.now()); err != nil {
			return err
		}

		if err := repo.DeleteMemberOrder(ctx, existing.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete member order")
		}
		event = notifications.OrderEvent{
			GroupOrderID: existing.GroupOrderID,
			OrderID:      existing.ID,
			BuyerName:    existing.BuyerDisplayName(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.OrderCanceled(ctx, event)
	return nil
}

// PlaceProxy records an order a coordinator takes over the phone or at the
// market stand. Unlike the member path it only checks the group order status:
// coordinators may keep typing in orders collected before the deadline.
func (s *service) PlaceProxy(ctx context.Context, input PlaceProxyInput) (*models.MemberOrder, error) {
	if input.GroupOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id required")
	}
	if input.CoordinatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := input.Buyer.Validate(); err != nil {
		return nil, err
	}
	if err := validateLines(input.Lines); err != nil {
		return nil, err
	}

	var order *models.MemberOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		groupOrder, err := findGroupOrder(ctx, repo, input.GroupOrderID)
		if err != nil {
			return err
		}
		if err := ensureOpen(groupOrder); err != nil {
			return err
		}
		if err := ensureDeliveryPoint(groupOrder, input.DeliveryPointID); err != nil {
			return err
		}

		if buyerID := input.Buyer.UserID(); buyerID != nil {
			exists, err := repo.ExistsForUser(ctx, input.GroupOrderID, *buyerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing order")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this group order")
			}
		}

		lines, total, err := snapshotLines(groupOrder, input.Lines)
		if err != nil {
			return err
		}

		coordinatorID := input.CoordinatorID
		order = &models.MemberOrder{
			GroupOrderID:          input.GroupOrderID,
			UserID:                input.Buyer.UserID(),
			ProxyBuyerName:        input.Buyer.ProxyName(),
			PlacedByCoordinatorID: &coordinatorID,
			DeliveryPointID:       input.DeliveryPointID,
			Notes:                 input.Notes,
			PaymentStatus:         enums.PaymentStatusNotPaid,
			TotalAmount:           total,
		}
		if _, err := repo.CreateMemberOrder(ctx, order); err != nil {
			if pkgerrors.IsUniqueViolation(err, memberOrderUniqueConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already exists for this group order")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member order")
		}
		for i := range lines {
			lines[i].MemberOrderID = order.ID
		}
		if err := repo.CreateOrderLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}
		order.OrderLines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.OrderPlaced(ctx, notifications.OrderEvent{
		GroupOrderID: order.GroupOrderID,
		OrderID:      order.ID,
		BuyerName:    order.BuyerDisplayName(),
	})
	return order, nil
}

func (s *service) MyOrders(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	listed, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list member orders")
	}
	return listed, nil
}

func (s *service) Get(ctx context.Context, orderID, actorUserID uuid.UUID, actorIsCoord bool) (*models.MemberOrder, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := findMemberOrder(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensureActorMayManage(order, actorUserID, actorIsCoord); err != nil {
		return nil, err
	}
	return order, nil
}

func validateLines(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one order line required")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if _, dup := seen[line.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in order lines")
		}
		seen[line.ProductID] = struct{}{}
		if !line.Quantity.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
		}
	}
	return nil
}

// snapshotLines resolves each requested product against the group order's
// product set and freezes its effective price into the line rows.
func snapshotLines(groupOrder *models.GroupOrder, inputs []LineInput) ([]models.OrderLine, decimal.Decimal, error) {
	byProduct := make(map[uuid.UUID]models.GroupOrderProduct, len(groupOrder.Products))
	for _, row := range groupOrder.Products {
		byProduct[row.ProductID] = row
	}

	lines := make([]models.OrderLine, 0, len(inputs))
	totals := make([]pricing.Line, 0, len(inputs))
	for _, input := range inputs {
		row, ok := byProduct[input.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeNotFound, "product not part of group order")
		}
		unitPrice := row.EffectivePrice()
		lines = append(lines, models.OrderLine{
			GroupOrderProductID: row.ID,
			Quantity:            input.Quantity,
			UnitPrice:           unitPrice,
			LineTotal:           pricing.LineTotal(input.Quantity, unitPrice),
		})
		totals = append(totals, pricing.Line{Quantity: input.Quantity, UnitPrice: unitPrice})
	}
	return lines, pricing.OrderTotal(totals), nil
}

func ensureOpen(groupOrder *models.GroupOrder) error {
	if groupOrder.Status != enums.GroupOrderStatusOpen {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "group order is not open")
	}
	return nil
}

func ensureWindow(groupOrder *models.GroupOrder, now time.Time) error {
	if now.After(groupOrder.CloseDate) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "ordering window has closed")
	}
	return nil
}

func ensureDeliveryPoint(groupOrder *models.GroupOrder, pointID uuid.UUID) error {
	if pointID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery point id required")
	}
	if len(groupOrder.DeliveryPoints) == 0 {
		return nil
	}
	for _, point := range groupOrder.DeliveryPoints {
		if point.ID == pointID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "delivery point not available for this group order")
}

func ensureActorMayManage(order *models.MemberOrder, actorUserID uuid.UUID, actorIsCoord bool) error {
	if actorIsCoord {
		return nil
	}
	if order.UserID != nil && *order.UserID == actorUserID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
}

func findMemberOrder(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.MemberOrder, error) {
	order, err := repo.FindMemberOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member order")
	}
	return order, nil
}

func findGroupOrder(ctx context.Context, repo Repository, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	order, err := repo.FindGroupOrderForOrdering(ctx, groupOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return order, nil
}
