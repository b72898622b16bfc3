package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// MemberOrder is one buyer's order against a group order. Exactly one of
// UserID / ProxyBuyerName is set; the partial unique index on
// (group_order_id, user_id) enforces at most one order per registered member
// while leaving proxy buyers unconstrained. TotalAmount always equals the
// sum of the line totals.
type MemberOrder struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID          uuid.UUID           `gorm:"column:group_order_id;type:uuid;not null"`
	UserID                *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	ProxyBuyerName        *string             `gorm:"column:proxy_buyer_name"`
	PlacedByCoordinatorID *uuid.UUID          `gorm:"column:placed_by_coordinator_id;type:uuid"`
	DeliveryPointID       uuid.UUID           `gorm:"column:delivery_point_id;type:uuid;not null"`
	Notes                 *string             `gorm:"column:notes"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'NOT_PAID'"`
	TotalAmount           decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	GroupOrder            *GroupOrder         `gorm:"foreignKey:GroupOrderID"`
	User                  *User               `gorm:"foreignKey:UserID"`
	DeliveryPoint         *DeliveryPoint      `gorm:"foreignKey:DeliveryPointID"`
	OrderLines            []OrderLine         `gorm:"foreignKey:MemberOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// BuyerDisplayName resolves the name shown on recaps and exports.
func (m MemberOrder) BuyerDisplayName() string {
	if m.User != nil && m.User.Name != "" {
		return m.User.Name
	}
	if m.ProxyBuyerName != nil {
		return *m.ProxyBuyerName
	}
	return "Acheteur"
}
