package controllers

import (
	"net/http"

	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	reportingsvc "github.com/team-fruitee/fruitee-backend/internal/reporting"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// GroupOrderExport returns the per-buyer breakdown used to prepare delivery day.
func GroupOrderExport(svc reportingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reporting service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		export, err := svc.GroupOrderExport(r.Context(), groupOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, export)
	}
}

// ProducerDemand returns the aggregated quantities to forward to the producer.
func ProducerDemand(svc reportingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reporting service unavailable"))
			return
		}

		groupOrderID, err := validators.ParsePathUUID(r, "groupOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ProducerDemand(r.Context(), groupOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}
