package controllers

import (
	"net/http"
	"strings"

	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	paymentsvc "github.com/team-fruitee/fruitee-backend/internal/payments"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// ListPayments returns the payment follow-up board for one campaign.
func ListPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListForGroupOrder(r.Context(), groupOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, entries)
	}
}

// SetPaymentStatus marks an order as not paid, partially paid or paid.
func SetPaymentStatus(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPaymentStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		if err := svc.SetStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"payment_status": string(status)})
	}
}

type setPaymentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
