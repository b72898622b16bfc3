package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/api/middleware"
	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	ordersvc "github.com/team-fruitee/fruitee-backend/internal/orders"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

func actorFromContext(r *http.Request) (uuid.UUID, bool, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, false, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	isCoord := middleware.RoleFromContext(r.Context()) == string(enums.UserRoleCoordinator)
	return uid, isCoord, nil
}

// PlaceOrder records the caller's order inside an open campaign.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryPointID, err := uuid.Parse(strings.TrimSpace(payload.DeliveryPointID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery point id"))
			return
		}

		lines, err := toLineInputs(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Place(r.Context(), ordersvc.PlaceInput{
			GroupOrderID:    groupOrderID,
			UserID:          uid,
			DeliveryPointID: deliveryPointID,
			Notes:           payload.Notes,
			Lines:           lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  string `json:"quantity" validate:"required"`
}

type placeOrderRequest struct {
	DeliveryPointID string             `json:"delivery_point_id" validate:"required,uuid"`
	Notes           *string            `json:"notes,omitempty"`
	Lines           []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PlaceProxyOrder lets a coordinator record an order on someone's behalf,
// for a registered member or a named person without an account.
func PlaceProxyOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		coordinatorID, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeProxyOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyer, err := payload.toBuyerRef()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveryPointID, err := uuid.Parse(strings.TrimSpace(payload.DeliveryPointID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery point id"))
			return
		}

		lines, err := toLineInputs(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceProxy(r.Context(), ordersvc.PlaceProxyInput{
			GroupOrderID:    groupOrderID,
			Buyer:           buyer,
			CoordinatorID:   coordinatorID,
			DeliveryPointID: deliveryPointID,
			Notes:           payload.Notes,
			Lines:           lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type placeProxyOrderRequest struct {
	BuyerUserID     *string            `json:"buyer_user_id,omitempty" validate:"omitempty,uuid"`
	BuyerName       *string            `json:"buyer_name,omitempty"`
	DeliveryPointID string             `json:"delivery_point_id" validate:"required,uuid"`
	Notes           *string            `json:"notes,omitempty"`
	Lines           []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r placeProxyOrderRequest) toBuyerRef() (ordersvc.BuyerRef, error) {
	if r.BuyerUserID != nil && r.BuyerName != nil {
		return ordersvc.BuyerRef{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer must be exactly one of registered member or named person")
	}
	if r.BuyerUserID != nil {
		buyerID, err := uuid.Parse(strings.TrimSpace(*r.BuyerUserID))
		if err != nil {
			return ordersvc.BuyerRef{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer user id")
		}
		return ordersvc.BuyerForUser(buyerID)
	}
	if r.BuyerName != nil {
		return ordersvc.BuyerForProxy(*r.BuyerName)
	}
	return ordersvc.BuyerRef{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer must be exactly one of registered member or named person")
}

// EditOrder replaces the lines of an order while the campaign stays open.
func EditOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, isCoord, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := toLineInputs(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.EditInput{
			OrderID:      orderID,
			ActorUserID:  uid,
			ActorIsCoord: isCoord,
			Notes:        payload.Notes,
			Lines:        lines,
		}
		if payload.DeliveryPointID != nil {
			pointID, err := uuid.Parse(strings.TrimSpace(*payload.DeliveryPointID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery point id"))
				return
			}
			input.DeliveryPointID = &pointID
		}

		order, err := svc.Edit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type editOrderRequest struct {
	DeliveryPointID *string            `json:"delivery_point_id,omitempty" validate:"omitempty,uuid"`
	Notes           *string            `json:"notes,omitempty"`
	Lines           []orderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CancelOrder withdraws an order while the campaign stays open.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, isCoord, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), ordersvc.CancelInput{
			OrderID:      orderID,
			ActorUserID:  uid,
			ActorIsCoord: isCoord,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "canceled"})
	}
}

// MyOrders returns the caller's order history.
func MyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, _, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.MyOrders(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// GetOrder returns one order the caller owns or manages.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, isCoord, err := actorFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID, uid, isCoord)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func toLineInputs(requests []orderLineRequest) ([]ordersvc.LineInput, error) {
	lines := make([]ordersvc.LineInput, 0, len(requests))
	for _, req := range requests {
		productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		quantity, err := parseDecimal(req.Quantity, "quantity")
		if err != nil {
			return nil, err
		}
		lines = append(lines, ordersvc.LineInput{
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	return lines, nil
}
