package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/team-fruitee/fruitee-backend/internal/notifications"
	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

type stubOrdersRepo struct {
	groupOrder   *models.GroupOrder
	memberOrder  *models.MemberOrder
	existing     bool
	createErr    error
	createdOrder *models.MemberOrder
	createdLines []models.OrderLine
	deletedLines uuid.UUID
	deletedOrder uuid.UUID
	orderUpdates map[string]any
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateMemberOrder(ctx context.Context, order *models.MemberOrder) (*models.MemberOrder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.createdOrder = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	s.createdLines = append(s.createdLines, lines...)
	return nil
}

func (s *stubOrdersRepo) FindMemberOrder(ctx context.Context, orderID uuid.UUID) (*models.MemberOrder, error) {
	if s.memberOrder == nil || s.memberOrder.ID != orderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.memberOrder, nil
}

func (s *stubOrdersRepo) FindGroupOrderForOrdering(ctx context.Context, groupOrderID uuid.UUID) (*models.GroupOrder, error) {
	if s.groupOrder == nil || s.groupOrder.ID != groupOrderID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.groupOrder, nil
}

func (s *stubOrdersRepo) ExistsForUser(ctx context.Context, groupOrderID, userID uuid.UUID) (bool, error) {
	return s.existing, nil
}

func (s *stubOrdersRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error) {
	return nil, nil
}

func (s *stubOrdersRepo) UpdateMemberOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.orderUpdates = updates
	return nil
}

func (s *stubOrdersRepo) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error {
	s.deletedLines = orderID
	return nil
}

func (s *stubOrdersRepo) DeleteMemberOrder(ctx context.Context, orderID uuid.UUID) error {
	s.deletedOrder = orderID
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubNotifier struct {
	placed   []notifications.OrderEvent
	updated  []notifications.OrderEvent
	canceled []notifications.OrderEvent
}

func (s *stubNotifier) OrderPlaced(ctx context.Context, event notifications.OrderEvent) {
	s.placed = append(s.placed, event)
}

func (s *stubNotifier) OrderUpdated(ctx context.Context, event notifications.OrderEvent) {
	s.updated = append(s.updated, event)
}

func (s *stubNotifier) OrderCanceled(ctx context.Context, event notifications.OrderEvent) {
	s.canceled = append(s.canceled, event)
}

func (s *stubNotifier) GroupOrderStatusChanged(ctx context.Context, event notifications.StatusEvent) {
}

func newOrderService(t *testing.T, repo Repository, notifier notifications.Notifier) *service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, notifier)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc.(*service)
}

// openGroupOrder builds an OPEN campaign closing tomorrow with two products:
// apples at 15.50 (overridden from 16.00) and eggs at 4.20.
func openGroupOrder() (*models.GroupOrder, uuid.UUID, uuid.UUID) {
	applesID := uuid.New()
	eggsID := uuid.New()
	override := decimal.RequireFromString("15.50")
	return &models.GroupOrder{
		ID:        uuid.New(),
		Status:    enums.GroupOrderStatusOpen,
		OpenDate:  time.Now().Add(-24 * time.Hour),
		CloseDate: time.Now().Add(24 * time.Hour),
		Products: []models.GroupOrderProduct{
			{
				ID:            uuid.New(),
				ProductID:     applesID,
				PriceOverride: &override,
				Product:       &models.Product{ID: applesID, Name: "Pommes", PriceWithTransport: decimal.RequireFromString("16.00")},
			},
			{
				ID:        uuid.New(),
				ProductID: eggsID,
				Product:   &models.Product{ID: eggsID, Name: "Oeufs", PriceWithTransport: decimal.RequireFromString("4.20")},
			},
		},
	}, applesID, eggsID
}

func TestPlaceOrder(t *testing.T) {
	groupOrder, applesID, eggsID := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder}
	notifier := &stubNotifier{}
	svc := newOrderService(t, repo, notifier)

	order, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines: []LineInput{
			{ProductID: applesID, Quantity: decimal.RequireFromString("2")},
			{ProductID: eggsID, Quantity: decimal.RequireFromString("1.5")},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	// 2 x 15.50 + 1.5 x 4.20 = 31.00 + 6.30
	if !order.TotalAmount.Equal(decimal.RequireFromString("37.30")) {
		t.Fatalf("expected total 37.30 got %s", order.TotalAmount)
	}
	if len(repo.createdLines) != 2 {
		t.Fatalf("expected two lines got %d", len(repo.createdLines))
	}
	if !repo.createdLines[0].UnitPrice.Equal(decimal.RequireFromString("15.50")) {
		t.Fatalf("expected override snapshot got %s", repo.createdLines[0].UnitPrice)
	}
	if len(notifier.placed) != 1 {
		t.Fatal("expected placed notification")
	}
}

func TestPlaceOrderNotOpen(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	groupOrder.Status = enums.GroupOrderStatusDraft
	svc := newOrderService(t, &stubOrdersRepo{groupOrder: groupOrder}, &stubNotifier{})

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestPlaceOrderWindowClosed(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder}
	svc := newOrderService(t, repo, &stubNotifier{})
	svc.now = func() time.Time { return groupOrder.CloseDate.Add(time.Minute) }

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestPlaceOrderDuplicate(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder, existing: true}
	svc := newOrderService(t, repo, &stubNotifier{})

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	groupOrder, _, _ := openGroupOrder()
	svc := newOrderService(t, &stubOrdersRepo{groupOrder: groupOrder}, &stubNotifier{})

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: uuid.New(), Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestPlaceOrderRestrictedDeliveryPoint(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	allowed := uuid.New()
	groupOrder.DeliveryPoints = []models.DeliveryPoint{{ID: allowed}}
	svc := newOrderService(t, &stubOrdersRepo{groupOrder: groupOrder}, &stubNotifier{})

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestPlaceOrderQuantityValidation(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	svc := newOrderService(t, &stubOrdersRepo{groupOrder: groupOrder}, &stubNotifier{})

	_, err := svc.Place(context.Background(), PlaceInput{
		GroupOrderID:    groupOrder.ID,
		UserID:          uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.Zero}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestEditOrderReplacesLines(t *testing.T) {
	groupOrder, applesID, eggsID := openGroupOrder()
	userID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		groupOrder: groupOrder,
		memberOrder: &models.MemberOrder{
			ID:              orderID,
			GroupOrderID:    groupOrder.ID,
			UserID:          &userID,
			DeliveryPointID: uuid.New(),
			TotalAmount:     decimal.RequireFromString("31.00"),
		},
	}
	notifier := &stubNotifier{}
	svc := newOrderService(t, repo, notifier)

	order, err := svc.Edit(context.Background(), EditInput{
		OrderID:     orderID,
		ActorUserID: userID,
		Lines: []LineInput{
			{ProductID: applesID, Quantity: decimal.New(1, 0)},
			{ProductID: eggsID, Quantity: decimal.New(2, 0)},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.deletedLines != orderID {
		t.Fatal("expected old lines deleted")
	}
	// 1 x 15.50 + 2 x 4.20 = 23.90
	if !order.TotalAmount.Equal(decimal.RequireFromString("23.90")) {
		t.Fatalf("expected total 23.90 got %s", order.TotalAmount)
	}
	if len(notifier.updated) != 1 {
		t.Fatal("expected updated notification")
	}
}

func TestEditOrderOwnership(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	owner := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		groupOrder: groupOrder,
		memberOrder: &models.MemberOrder{
			ID:           orderID,
			GroupOrderID: groupOrder.ID,
			UserID:       &owner,
		},
	}
	svc := newOrderService(t, repo, &stubNotifier{})

	_, err := svc.Edit(context.Background(), EditInput{
		OrderID:     orderID,
		ActorUserID: uuid.New(),
		Lines:       []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestCoordinatorMayEditProxyOrder(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	orderID := uuid.New()
	proxyName := "Mme Dupont"
	repo := &stubOrdersRepo{
		groupOrder: groupOrder,
		memberOrder: &models.MemberOrder{
			ID:             orderID,
			GroupOrderID:   groupOrder.ID,
			ProxyBuyerName: &proxyName,
		},
	}
	svc := newOrderService(t, repo, &stubNotifier{})

	_, err := svc.Edit(context.Background(), EditInput{
		OrderID:      orderID,
		ActorUserID:  uuid.New(),
		ActorIsCoord: true,
		Lines:        []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	groupOrder, _, _ := openGroupOrder()
	userID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		groupOrder: groupOrder,
		memberOrder: &models.MemberOrder{
			ID:           orderID,
			GroupOrderID: groupOrder.ID,
			UserID:       &userID,
		},
	}
	notifier := &stubNotifier{}
	svc := newOrderService(t, repo, notifier)

	if err := svc.Cancel(context.Background(), CancelInput{OrderID: orderID, ActorUserID: userID}); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.deletedOrder != orderID {
		t.Fatal("expected order deleted")
	}
	if len(notifier.canceled) != 1 {
		t.Fatal("expected canceled notification")
	}
}

func TestCancelOrderAfterClose(t *testing.T) {
	groupOrder, _, _ := openGroupOrder()
	userID := uuid.New()
	orderID := uuid.New()
	repo := &stubOrdersRepo{
		groupOrder: groupOrder,
		memberOrder: &models.MemberOrder{
			ID:           orderID,
			GroupOrderID: groupOrder.ID,
			UserID:       &userID,
		},
	}
	svc := newOrderService(t, repo, &stubNotifier{})
	svc.now = func() time.Time { return groupOrder.CloseDate.Add(time.Hour) }

	err := svc.Cancel(context.Background(), CancelInput{OrderID: orderID, ActorUserID: userID})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestPlaceProxyForNamedBuyer(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder}
	svc := newOrderService(t, repo, &stubNotifier{})

	buyer, err := BuyerForProxy(" Mme Dupont ")
	if err != nil {
		t.Fatalf("buyer constructor failed: %v", err)
	}

	order, err := svc.PlaceProxy(context.Background(), PlaceProxyInput{
		GroupOrderID:    groupOrder.ID,
		Buyer:           buyer,
		CoordinatorID:   uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(2, 0)}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.UserID != nil {
		t.Fatal("expected no user id on named buyer order")
	}
	if order.ProxyBuyerName == nil || *order.ProxyBuyerName != "Mme Dupont" {
		t.Fatalf("expected trimmed proxy name got %v", order.ProxyBuyerName)
	}
	if order.PlacedByCoordinatorID == nil {
		t.Fatal("expected placing coordinator recorded")
	}
}

// Proxy orders only require the group order to be OPEN: coordinators type in
// orders collected before the deadline even after the close date passed.
func TestPlaceProxyIgnoresCloseDate(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder}
	svc := newOrderService(t, repo, &stubNotifier{})
	svc.now = func() time.Time { return groupOrder.CloseDate.Add(48 * time.Hour) }

	buyer, err := BuyerForProxy("Mme Dupont")
	if err != nil {
		t.Fatalf("buyer constructor failed: %v", err)
	}

	_, err = svc.PlaceProxy(context.Background(), PlaceProxyInput{
		GroupOrderID:    groupOrder.ID,
		Buyer:           buyer,
		CoordinatorID:   uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
}

func TestPlaceProxyDuplicateRegisteredBuyer(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	repo := &stubOrdersRepo{groupOrder: groupOrder, existing: true}
	svc := newOrderService(t, repo, &stubNotifier{})

	buyer, err := BuyerForUser(uuid.New())
	if err != nil {
		t.Fatalf("buyer constructor failed: %v", err)
	}

	_, err = svc.PlaceProxy(context.Background(), PlaceProxyInput{
		GroupOrderID:    groupOrder.ID,
		Buyer:           buyer,
		CoordinatorID:   uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestPlaceProxyZeroBuyerRejected(t *testing.T) {
	groupOrder, applesID, _ := openGroupOrder()
	svc := newOrderService(t, &stubOrdersRepo{groupOrder: groupOrder}, &stubNotifier{})

	_, err := svc.PlaceProxy(context.Background(), PlaceProxyInput{
		GroupOrderID:    groupOrder.ID,
		Buyer:           BuyerRef{},
		CoordinatorID:   uuid.New(),
		DeliveryPointID: uuid.New(),
		Lines:           []LineInput{{ProductID: applesID, Quantity: decimal.New(1, 0)}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestBuyerRefConstructors(t *testing.T) {
	if _, err := BuyerForUser(uuid.Nil); err == nil {
		t.Fatal("expected error for nil user id")
	}
	if _, err := BuyerForProxy(" x "); err == nil {
		t.Fatal("expected error for short name")
	}

	buyer, err := BuyerForUser(uuid.New())
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if err := buyer.Validate(); err != nil {
		t.Fatalf("expected valid buyer got %v", err)
	}
}
