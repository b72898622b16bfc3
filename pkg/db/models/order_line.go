package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine snapshots the quantity and unit price of one product within a
// member order. UnitPrice is frozen when the order is placed or last edited;
// later catalogue changes never touch it. LineTotal is always recomputed as
// round(quantity * unit price, 2).
type OrderLine struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberOrderID       uuid.UUID          `gorm:"column:member_order_id;type:uuid;not null"`
	GroupOrderProductID uuid.UUID          `gorm:"column:group_order_product_id;type:uuid;not null"`
	Quantity            decimal.Decimal    `gorm:"column:quantity;type:numeric(10,3);not null"`
	UnitPrice           decimal.Decimal    `gorm:"column:unit_price;type:numeric(10,2);not null"`
	LineTotal           decimal.Decimal    `gorm:"column:line_total;type:numeric(10,2);not null"`
	GroupOrderProduct   *GroupOrderProduct `gorm:"foreignKey:GroupOrderProductID"`
	CreatedAt           time.Time          `gorm:"column:created_at;autoCreateTime"`
}
