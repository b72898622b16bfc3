package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/api/middleware"
	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	grouporderSvc "github.com/team-fruitee/fruitee-backend/internal/grouporders"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// CreateGroupOrder opens a new purchasing campaign for a producer.
func CreateGroupOrder(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}
		uid, err := uuid.Parse(userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var payload createGroupOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput(uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type productSelectionRequest struct {
	ProductID     string  `json:"product_id" validate:"required,uuid"`
	PriceOverride *string `json:"price_override,omitempty"`
}

type createGroupOrderRequest struct {
	ProducerID         string                    `json:"producer_id" validate:"required,uuid"`
	Title              string                    `json:"title" validate:"required,min=2"`
	OpenDate           time.Time                 `json:"open_date" validate:"required"`
	CloseDate          time.Time                 `json:"close_date" validate:"required"`
	DeliveryDate       time.Time                 `json:"delivery_date" validate:"required"`
	Status             *string                   `json:"status,omitempty"`
	Products           []productSelectionRequest `json:"products" validate:"required,min=1,dive"`
	DeliveryPointIDs   []string                  `json:"delivery_point_ids,omitempty" validate:"omitempty,dive,uuid"`
	PaymentReferentIDs []string                  `json:"payment_referent_ids,omitempty" validate:"omitempty,dive,uuid"`
	MinOrderAmount     *string                   `json:"min_order_amount,omitempty"`
	MinOrderQuantity   *int                      `json:"min_order_quantity,omitempty" validate:"omitempty,min=1"`
	TransportUserID    *string                   `json:"transport_user_id,omitempty" validate:"omitempty,uuid"`
	Notes              *string                   `json:"notes,omitempty"`
}

func (r createGroupOrderRequest) toCreateInput(createdBy uuid.UUID) (grouporderSvc.CreateInput, error) {
	producerID, err := uuid.Parse(strings.TrimSpace(r.ProducerID))
	if err != nil {
		return grouporderSvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid producer id")
	}

	status := enums.GroupOrderStatusDraft
	if r.Status != nil {
		parsed, err := enums.ParseGroupOrderStatus(strings.TrimSpace(*r.Status))
		if err != nil {
			return grouporderSvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	products, err := toProductSelections(r.Products)
	if err != nil {
		return grouporderSvc.CreateInput{}, err
	}

	pointIDs, err := parseUUIDList(r.DeliveryPointIDs, "delivery point id")
	if err != nil {
		return grouporderSvc.CreateInput{}, err
	}
	referentIDs, err := parseUUIDList(r.PaymentReferentIDs, "payment referent id")
	if err != nil {
		return grouporderSvc.CreateInput{}, err
	}

	input := grouporderSvc.CreateInput{
		ProducerID:         producerID,
		Title:              r.Title,
		OpenDate:           r.OpenDate,
		CloseDate:          r.CloseDate,
		DeliveryDate:       r.DeliveryDate,
		Status:             status,
		Products:           products,
		DeliveryPointIDs:   pointIDs,
		PaymentReferentIDs: referentIDs,
		MinOrderQuantity:   r.MinOrderQuantity,
		Notes:              r.Notes,
		CreatedBy:          createdBy,
	}

	if r.MinOrderAmount != nil {
		amount, err := parseDecimal(*r.MinOrderAmount, "min_order_amount")
		if err != nil {
			return grouporderSvc.CreateInput{}, err
		}
		input.MinOrderAmount = &amount
	}
	if r.TransportUserID != nil {
		transportID, err := uuid.Parse(strings.TrimSpace(*r.TransportUserID))
		if err != nil {
			return grouporderSvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transport user id")
		}
		input.TransportUserID = &transportID
	}

	return input, nil
}

// EditGroupOrder applies a partial update while the campaign is still editable.
func EditGroupOrder(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload editGroupOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toEditInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Edit(r.Context(), groupOrderID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type editGroupOrderRequest struct {
	Title              *string                   `json:"title,omitempty" validate:"omitempty,min=2"`
	OpenDate           *time.Time                `json:"open_date,omitempty"`
	CloseDate          *time.Time                `json:"close_date,omitempty"`
	DeliveryDate       *time.Time                `json:"delivery_date,omitempty"`
	Products           []productSelectionRequest `json:"products,omitempty" validate:"omitempty,dive"`
	DeliveryPointIDs   *[]string                 `json:"delivery_point_ids,omitempty"`
	PaymentReferentIDs *[]string                 `json:"payment_referent_ids,omitempty"`
	MinOrderAmount     *string                   `json:"min_order_amount,omitempty"`
	MinOrderQuantity   *int                      `json:"min_order_quantity,omitempty" validate:"omitempty,min=1"`
	TransportUserID    *string                   `json:"transport_user_id,omitempty" validate:"omitempty,uuid"`
	Notes              *string                   `json:"notes,omitempty"`
}

func (r editGroupOrderRequest) toEditInput() (grouporderSvc.EditInput, error) {
	input := grouporderSvc.EditInput{
		Title:            r.Title,
		OpenDate:         r.OpenDate,
		CloseDate:        r.CloseDate,
		DeliveryDate:     r.DeliveryDate,
		MinOrderQuantity: r.MinOrderQuantity,
		Notes:            r.Notes,
	}

	if len(r.Products) > 0 {
		products, err := toProductSelections(r.Products)
		if err != nil {
			return grouporderSvc.EditInput{}, err
		}
		input.Products = products
	}

	if r.DeliveryPointIDs != nil {
		pointIDs, err := parseUUIDList(*r.DeliveryPointIDs, "delivery point id")
		if err != nil {
			return grouporderSvc.EditInput{}, err
		}
		input.DeliveryPointIDs = &pointIDs
	}
	if r.PaymentReferentIDs != nil {
		referentIDs, err := parseUUIDList(*r.PaymentReferentIDs, "payment referent id")
		if err != nil {
			return grouporderSvc.EditInput{}, err
		}
		input.PaymentReferentIDs = &referentIDs
	}
	if r.MinOrderAmount != nil {
		amount, err := parseDecimal(*r.MinOrderAmount, "min_order_amount")
		if err != nil {
			return grouporderSvc.EditInput{}, err
		}
		input.MinOrderAmount = &amount
	}
	if r.TransportUserID != nil {
		transportID, err := uuid.Parse(strings.TrimSpace(*r.TransportUserID))
		if err != nil {
			return grouporderSvc.EditInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transport user id")
		}
		input.TransportUserID = &transportID
	}

	return input, nil
}

// DeleteGroupOrder removes a campaign that has no member orders yet.
func DeleteGroupOrder(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), groupOrderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ChangeGroupOrderStatus advances a campaign through its lifecycle.
func ChangeGroupOrderStatus(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload changeStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := enums.ParseGroupOrderStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		if err := svc.ChangeStatus(r.Context(), groupOrderID, target); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": string(target)})
	}
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListGroupOrders returns the coordinator overview of all campaigns.
func ListGroupOrders(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		summaries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}

// GetGroupOrder returns one campaign with products, orders and delivery points.
func GetGroupOrder(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetDetail(r.Context(), groupOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ListOpenGroupOrders returns the member-facing open campaigns.
func ListOpenGroupOrders(svc grouporderSvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group order service unavailable"))
			return
		}

		orders, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

func toProductSelections(requests []productSelectionRequest) ([]grouporderSvc.ProductSelection, error) {
	selections := make([]grouporderSvc.ProductSelection, 0, len(requests))
	for _, req := range requests {
		productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		selection := grouporderSvc.ProductSelection{ProductID: productID}
		if req.PriceOverride != nil {
			override, err := parseDecimal(*req.PriceOverride, "price_override")
			if err != nil {
				return nil, err
			}
			selection.PriceOverride = &override
		}
		selections = append(selections, selection)
	}
	return selections, nil
}

func parseUUIDList(values []string, label string) ([]uuid.UUID, error) {
	result := make([]uuid.UUID, 0, len(values))
	for _, raw := range values {
		if raw == "" {
			continue
		}
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
		}
		result = append(result, parsed)
	}
	return result, nil
}
