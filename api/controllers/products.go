package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/api/responses"
	"github.com/team-fruitee/fruitee-backend/api/validators"
	catalogsvc "github.com/team-fruitee/fruitee-backend/internal/catalog"
	"github.com/team-fruitee/fruitee-backend/pkg/enums"
	pkgerrors "github.com/team-fruitee/fruitee-backend/pkg/errors"
	"github.com/team-fruitee/fruitee-backend/pkg/logger"
)

// CreateProduct adds a catalogue entry under a producer.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type createProductRequest struct {
	ProducerID         string  `json:"producer_id" validate:"required,uuid"`
	Name               string  `json:"name" validate:"required,min=2"`
	Description        *string `json:"description,omitempty"`
	UnitType           string  `json:"unit_type" validate:"required"`
	UnitQuantity       string  `json:"unit_quantity" validate:"required"`
	PriceProducer      string  `json:"price_producer" validate:"required"`
	PriceWithTransport string  `json:"price_with_transport" validate:"required"`
}

func (r createProductRequest) toCreateInput() (catalogsvc.CreateProductInput, error) {
	producerID, err := uuid.Parse(strings.TrimSpace(r.ProducerID))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid producer id")
	}

	unitType, err := enums.ParseUnitType(strings.TrimSpace(r.UnitType))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit type")
	}

	unitQuantity, err := parseDecimal(r.UnitQuantity, "unit_quantity")
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}
	priceProducer, err := parseDecimal(r.PriceProducer, "price_producer")
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}
	priceWithTransport, err := parseDecimal(r.PriceWithTransport, "price_with_transport")
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}

	return catalogsvc.CreateProductInput{
		ProducerID:         producerID,
		Name:               r.Name,
		Description:        r.Description,
		UnitType:           unitType,
		UnitQuantity:       unitQuantity,
		PriceProducer:      priceProducer,
		PriceWithTransport: priceWithTransport,
	}, nil
}

// UpdateProduct applies a partial update to a catalogue entry.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateProduct(r.Context(), productID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type updateProductRequest struct {
	Name               *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Description        *string `json:"description,omitempty"`
	UnitType           *string `json:"unit_type,omitempty"`
	UnitQuantity       *string `json:"unit_quantity,omitempty"`
	PriceProducer      *string `json:"price_producer,omitempty"`
	PriceWithTransport *string `json:"price_with_transport,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
	}

	if r.UnitType != nil {
		unitType, err := enums.ParseUnitType(strings.TrimSpace(*r.UnitType))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit type")
		}
		input.UnitType = &unitType
	}
	if r.UnitQuantity != nil {
		value, err := parseDecimal(*r.UnitQuantity, "unit_quantity")
		if err != nil {
			return catalogsvc.UpdateProductInput{}, err
		}
		input.UnitQuantity = &value
	}
	if r.PriceProducer != nil {
		value, err := parseDecimal(*r.PriceProducer, "price_producer")
		if err != nil {
			return catalogsvc.UpdateProductInput{}, err
		}
		input.PriceProducer = &value
	}
	if r.PriceWithTransport != nil {
		value, err := parseDecimal(*r.PriceWithTransport, "price_with_transport")
		if err != nil {
			return catalogsvc.UpdateProductInput{}, err
		}
		input.PriceWithTransport = &value
	}

	return input, nil
}

// SetProductActive toggles a product in or out of the active catalogue.
func SetProductActive(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setActiveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetProductActive(r.Context(), productID, *payload.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// DeleteProduct removes a catalogue entry that no group order references.
func DeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseDecimal(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decimal value").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
