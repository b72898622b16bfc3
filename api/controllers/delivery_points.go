package controllers

import (
	"net/http"

	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	pointsvc "github.com/team-fruitee/fruitee-backend/internal/deliverypoints"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// CreateDeliveryPoint registers a new pickup location.
func CreateDeliveryPoint(svc pointsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery point service unavailable"))
			return
		}

		var payload createDeliveryPointRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point, err := svc.Create(r.Context(), pointsvc.CreateInput{
			Name:    payload.Name,
			Address: payload.Address,
			Commune: payload.Commune,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, point)
	}
}

type createDeliveryPointRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Address string `json:"address" validate:"required,min=2"`
	Commune string `json:"commune" validate:"required,min=2"`
}

// UpdateDeliveryPoint applies a partial update to a pickup location.
func UpdateDeliveryPoint(svc pointsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery point service unavailable"))
			return
		}

		pointID, err := validators.ParsePathUUID(r, "pointId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDeliveryPointRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), pointID, pointsvc.UpdateInput{
			Name:    payload.Name,
			Address: payload.Address,
			Commune: payload.Commune,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type updateDeliveryPointRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=2"`
	Commune *string `json:"commune,omitempty" validate:"omitempty,min=2"`
}

// SetDeliveryPointActive toggles a pickup location's availability.
func SetDeliveryPointActive(svc pointsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery point service unavailable"))
			return
		}

		pointID, err := validators.ParsePathUUID(r, "pointId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetActive(r.Context(), pointID, *payload.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// ListDeliveryPoints returns active pickup locations for members.
func ListDeliveryPoints(svc pointsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery point service unavailable"))
			return
		}

		points, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, points)
	}
}

// ListAllDeliveryPoints returns every pickup location for coordinators.
func ListAllDeliveryPoints(svc pointsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "delivery point service unavailable"))
			return
		}

		points, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, points)
	}
}
