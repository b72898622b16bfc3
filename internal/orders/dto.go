package orders

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
)

// LineInput is one requested product quantity.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// PlaceInput captures a member placing their own order.
type PlaceInput struct {
	GroupOrderID    uuid.UUID
	UserID          uuid.UUID
	DeliveryPointID uuid.UUID
	Notes           *string
	Lines           []LineInput
}

// EditInput replaces the lines of an existing order and optionally moves it
// to another delivery point.
type EditInput struct {
	OrderID         uuid.UUID
	ActorUserID     uuid.UUID
	ActorIsCoord    bool
	DeliveryPointID *uuid.UUID
	Notes           *string
	Lines           []LineInput
}

// CancelInput identifies the order to withdraw and who asks for it.
type CancelInput struct {
	OrderID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorIsCoord bool
}

// BuyerRef identifies who a proxy order is for: exactly one of a registered
// member or a free-text name for someone without an account. The zero value
// is invalid; use BuyerForUser or BuyerForProxy.
type BuyerRef struct {
	userID    *uuid.UUID
	proxyName *string
}

// BuyerForUser builds a reference to a registered member.
func BuyerForUser(userID uuid.UUID) (BuyerRef, error) {
	if userID == uuid.Nil {
		return BuyerRef{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer user id required")
	}
	return BuyerRef{userID: &userID}, nil
}

// BuyerForProxy builds a reference to an unregistered buyer by name.
func BuyerForProxy(name string) (BuyerRef, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return BuyerRef{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer name must be at least 2 characters")
	}
	return BuyerRef{proxyName: &trimmed}, nil
}

// UserID returns the registered member id, or nil for a named buyer.
func (b BuyerRef) UserID() *uuid.UUID {
	return b.userID
}

// ProxyName returns the free-text buyer name, or nil for a registered member.
func (b BuyerRef) ProxyName() *string {
	return b.proxyName
}

// Validate rejects the zero value and double-set references.
func (b BuyerRef) Validate() error {
	if (b.userID == nil) == (b.proxyName == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer must be exactly one of registered member or named person")
	}
	return nil
}

// PlaceProxyInput captures a coordinator ordering on someone's behalf.
type PlaceProxyInput struct {
	GroupOrderID    uuid.UUID
	Buyer           BuyerRef
	CoordinatorID   uuid.UUID
	DeliveryPointID uuid.UUID
	Notes           *string
	Lines           []LineInput
}
