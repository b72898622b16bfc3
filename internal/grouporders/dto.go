package grouporders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// ProductSelection names a catalogue product included in a group order,
// optionally with a campaign-specific price replacing the catalogue one.
type ProductSelection struct {
	ProductID     uuid.UUID
	PriceOverride *decimal.Decimal
}

// CreateInput captures the fields a coordinator submits for a new group order.
type CreateInput struct {
	ProducerID         uuid.UUID
	Title              string
	OpenDate           time.Time
	CloseDate          time.Time
	DeliveryDate       time.Time
	Status             enums.GroupOrderStatus
	Products           []ProductSelection
	DeliveryPointIDs   []uuid.UUID
	PaymentReferentIDs []uuid.UUID
	MinOrderAmount     *decimal.Decimal
	MinOrderQuantity   *int
	TransportUserID    *uuid.UUID
	Notes              *string
	CreatedBy          uuid.UUID
}

// EditInput carries optional group-order fields; nil means unchanged.
// Products and DeliveryPointIDs, when present, fully describe the new sets.
type EditInput struct {
	Title              *string
	OpenDate           *time.Time
	CloseDate          *time.Time
	DeliveryDate       *time.Time
	Products           []ProductSelection
	DeliveryPointIDs   *[]uuid.UUID
	PaymentReferentIDs *[]uuid.UUID
	MinOrderAmount     *decimal.Decimal
	MinOrderQuantity   *int
	TransportUserID    *uuid.UUID
	Notes              *string
}

// Summary is a coordinator-facing list row.
type Summary struct {
	ID               uuid.UUID              `json:"id"`
	Title            string                 `json:"title"`
	ProducerName     string                 `json:"producer_name"`
	Status           enums.GroupOrderStatus `json:"status"`
	OpenDate         time.Time              `json:"open_date"`
	CloseDate        time.Time              `json:"close_date"`
	DeliveryDate     time.Time              `json:"delivery_date"`
	MemberOrderCount int64                  `json:"member_order_count"`
	CreatedAt        time.Time              `json:"created_at"`
}

// OpenProduct is a product row in the member-facing open listing with the
// price members actually pay.
type OpenProduct struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	UnitType       enums.UnitType  `json:"unit_type"`
	UnitQuantity   decimal.Decimal `json:"unit_quantity"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
}

// OpenGroupOrder is a member-facing open campaign. It is the cached shape,
// so it only carries JSON-stable fields.
type OpenGroupOrder struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	ProducerName     string           `json:"producer_name"`
	CloseDate        time.Time        `json:"close_date"`
	DeliveryDate     time.Time        `json:"delivery_date"`
	MinOrderAmount   *decimal.Decimal `json:"min_order_amount,omitempty"`
	MinOrderQuantity *int             `json:"min_order_quantity,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	Products         []OpenProduct    `json:"products"`
	DeliveryPointIDs []uuid.UUID      `json:"delivery_point_ids"`
}
