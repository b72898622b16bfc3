package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroupOrderProduct links a product into a group order. A nil PriceOverride
// falls back to the product's price with transport at read time. Rows with
// order lines are locked: they cannot be removed from the group order.
type GroupOrderProduct struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID  uuid.UUID        `gorm:"column:group_order_id;type:uuid;not null;uniqueIndex:idx_group_order_products_pair"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_group_order_products_pair"`
	PriceOverride *decimal.Decimal `gorm:"column:price_override;type:numeric(10,2)"`
	Product       *Product         `gorm:"foreignKey:ProductID"`
	OrderLines    []OrderLine      `gorm:"foreignKey:GroupOrderProductID"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// EffectivePrice resolves the price members pay for this product in this
// group order.
func (g GroupOrderProduct) EffectivePrice() decimal.Decimal {
	if g.PriceOverride != nil {
		return *g.PriceOverride
	}
	if g.Product != nil {
		return g.Product.PriceWithTransport
	}
	return decimal.Zero
}
