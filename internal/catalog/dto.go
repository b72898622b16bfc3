package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// CreateProducerInput captures the fields a coordinator submits for a new producer.
type CreateProducerInput struct {
	Name         string
	Description  *string
	Location     *string
	ContactEmail *string
}

// UpdateProducerInput carries optional producer fields; nil means unchanged.
type UpdateProducerInput struct {
	Name         *string
	Description  *string
	Location     *string
	ContactEmail *string
}

// CreateProductInput captures a new catalogue entry for a producer.
type CreateProductInput struct {
	ProducerID         uuid.UUID
	Name               string
	Description        *string
	UnitType           enums.UnitType
	UnitQuantity       decimal.Decimal
	PriceProducer      decimal.Decimal
	PriceWithTransport decimal.Decimal
}

// UpdateProductInput carries optional product fields; nil means unchanged.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	UnitType           *enums.UnitType
	UnitQuantity       *decimal.Decimal
	PriceProducer      *decimal.Decimal
	PriceWithTransport *decimal.Decimal
}

// ProducerSummary is a producer row enriched with usage counts for the admin list.
type ProducerSummary struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Location        *string   `json:"location,omitempty"`
	ContactEmail    *string   `json:"contact_email,omitempty"`
	IsActive        bool      `json:"is_active"`
	ProductCount    int64     `json:"product_count"`
	GroupOrderCount int64     `json:"group_order_count"`
	CreatedAt       time.Time `json:"created_at"`
}
