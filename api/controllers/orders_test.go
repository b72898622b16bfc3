package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/api/middleware"
	ordersvc "github.com/team-fruitee/fruitee-backend/internal/orders"
	"github.com/team-fruitee/fruitee-backend/pkg/db/models"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

func TestPlaceOrder(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	userID := uuid.New()
	groupOrderID := uuid.New()
	deliveryPointID := uuid.New()
	productID := uuid.New()

	body := `{"delivery_point_id":"` + deliveryPointID.String() + `","lines":[{"product_id":"` + productID.String() + `","quantity":"2"}]}`

	makeRequest := func(ctx context.Context, payload string, stub *stubOrderService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/group-orders/"+groupOrderID.String()+"/orders", strings.NewReader(payload))
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("groupOrderId", groupOrderID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		PlaceOrder(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing user", func(t *testing.T) {
		rec := makeRequest(context.Background(), body, &stubOrderService{})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 when user missing, got %d", rec.Code)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		rec := makeRequest(ctx, `{"lines":[]}`, &stubOrderService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid body, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx := middleware.WithUserID(context.Background(), userID.String())
		stub := &stubOrderService{placed: &models.MemberOrder{ID: uuid.New()}}
		rec := makeRequest(ctx, body, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on success, got %d", rec.Code)
		}
		if stub.placeInput == nil {
			t.Fatal("expected Place to be invoked")
		}
		if stub.placeInput.GroupOrderID != groupOrderID {
			t.Fatalf("expected group order %s got %s", groupOrderID, stub.placeInput.GroupOrderID)
		}
		if stub.placeInput.UserID != userID {
			t.Fatalf("expected user %s got %s", userID, stub.placeInput.UserID)
		}
		if len(stub.placeInput.Lines) != 1 || stub.placeInput.Lines[0].ProductID != productID {
			t.Fatalf("unexpected lines %+v", stub.placeInput.Lines)
		}
	})
}

func TestPlaceProxyOrderBuyerVariants(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	coordinatorID := uuid.New()
	groupOrderID := uuid.New()
	deliveryPointID := uuid.New()
	productID := uuid.New()

	makeRequest := func(payload string, stub *stubOrderService) *httptest.ResponseRecorder {
		ctx := middleware.WithUserID(context.Background(), coordinatorID.String())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/coordinator/group-orders/"+groupOrderID.String()+"/proxy-orders", strings.NewReader(payload))
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("groupOrderId", groupOrderID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		PlaceProxyOrder(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	linesPart := `"delivery_point_id":"` + deliveryPointID.String() + `","lines":[{"product_id":"` + productID.String() + `","quantity":"1"}]`

	t.Run("named buyer", func(t *testing.T) {
		stub := &stubOrderService{placed: &models.MemberOrder{ID: uuid.New()}}
		rec := makeRequest(`{"buyer_name":"Martine D.",`+linesPart+`}`, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rec.Code)
		}
		if stub.proxyInput == nil || stub.proxyInput.Buyer.ProxyName() == nil {
			t.Fatal("expected proxy buyer name to be forwarded")
		}
	})

	t.Run("registered buyer", func(t *testing.T) {
		buyerID := uuid.New()
		stub := &stubOrderService{placed: &models.MemberOrder{ID: uuid.New()}}
		rec := makeRequest(`{"buyer_user_id":"`+buyerID.String()+`",`+linesPart+`}`, stub)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d", rec.Code)
		}
		if stub.proxyInput == nil || stub.proxyInput.Buyer.UserID() == nil || *stub.proxyInput.Buyer.UserID() != buyerID {
			t.Fatal("expected registered buyer id to be forwarded")
		}
	})

	t.Run("both set", func(t *testing.T) {
		rec := makeRequest(`{"buyer_user_id":"`+uuid.NewString()+`","buyer_name":"Martine D.",`+linesPart+`}`, &stubOrderService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("neither set", func(t *testing.T) {
		rec := makeRequest(`{`+linesPart+`}`, &stubOrderService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})
}

type stubOrderService struct {
	placed     *models.MemberOrder
	placeInput *ordersvc.PlaceInput
	proxyInput *ordersvc.PlaceProxyInput
}

func (s *stubOrderService) Place(ctx context.Context, input ordersvc.PlaceInput) (*models.MemberOrder, error) {
	s.placeInput = &input
	return s.placed, nil
}

func (s *stubOrderService) Edit(ctx context.Context, input ordersvc.EditInput) (*models.MemberOrder, error) {
	panic("unimplemented")
}

func (s *stubOrderService) Cancel(ctx context.Context, input ordersvc.CancelInput) error {
	panic("unimplemented")
}

func (s *stubOrderService) PlaceProxy(ctx context.Context, input ordersvc.PlaceProxyInput) (*models.MemberOrder, error) {
	s.proxyInput = &input
	return s.placed, nil
}

func (s *stubOrderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]models.MemberOrder, error) {
	panic("unimplemented")
}

func (s *stubOrderService) Get(ctx context.Context, orderID, actorUserID uuid.UUID, actorIsCoord bool) (*models.MemberOrder, error) {
	panic("unimplemented")
}
