package controllers

import (
	"net/http"

	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	catalogsvc "github.com/team-fruitee/fruitee-backend/internal/catalog"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// CreateProducer handles producer creation for coordinators.
func CreateProducer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProducerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producer, err := svc.CreateProducer(r.Context(), catalogsvc.CreateProducerInput{
			Name:         payload.Name,
			Description:  payload.Description,
			Location:     payload.Location,
			ContactEmail: payload.ContactEmail,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, producer)
	}
}

type createProducerRequest struct {
	Name         string  `json:"name" validate:"required,min=2"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// UpdateProducer applies a partial update to an existing producer.
func UpdateProducer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		producerID, err := validators.ParsePathUUID(r, "producerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProducerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateProducer(r.Context(), producerID, catalogsvc.UpdateProducerInput{
			Name:         payload.Name,
			Description:  payload.Description,
			Location:     payload.Location,
			ContactEmail: payload.ContactEmail,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type updateProducerRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// SetProducerActive toggles a producer in or out of the active catalogue.
func SetProducerActive(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		producerID, err := validators.ParsePathUUID(r, "producerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetProducerActive(r.Context(), producerID, *payload.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// GetProducer returns one producer with its products.
func GetProducer(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		producerID, err := validators.ParsePathUUID(r, "producerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		producer, err := svc.GetProducer(r.Context(), producerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, producer)
	}
}

// ListProducers returns all producers with usage counts for coordinators.
func ListProducers(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		producers, err := svc.ListProducers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, producers)
	}
}

// ListActiveProducers returns the member-facing catalogue.
func ListActiveProducers(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		producers, err := svc.ListActiveProducers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, producers)
	}
}
