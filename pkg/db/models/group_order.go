package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// GroupOrder is the time-boxed buying window a coordinator opens against a
// single producer. Dates satisfy OpenDate < CloseDate <= DeliveryDate.
// An empty DeliveryPoints set means every active point is eligible.
type GroupOrder struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProducerID       uuid.UUID              `gorm:"column:producer_id;type:uuid;not null"`
	Title            string                 `gorm:"column:title;not null"`
	OpenDate         time.Time              `gorm:"column:open_date;not null"`
	CloseDate        time.Time              `gorm:"column:close_date;not null"`
	DeliveryDate     time.Time              `gorm:"column:delivery_date;not null"`
	Status           enums.GroupOrderStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	MinOrderAmount   *decimal.Decimal       `gorm:"column:min_order_amount;type:numeric(10,2)"`
	MinOrderQuantity *int                   `gorm:"column:min_order_quantity"`
	TransportUserID  *uuid.UUID             `gorm:"column:transport_user_id;type:uuid"`
	Notes            *string                `gorm:"column:notes"`
	CreatedBy        uuid.UUID              `gorm:"column:created_by;type:uuid;not null"`
	Producer         *Producer              `gorm:"foreignKey:ProducerID"`
	Products         []GroupOrderProduct    `gorm:"foreignKey:GroupOrderID;constraint:OnDelete:CASCADE"`
	MemberOrders     []MemberOrder          `gorm:"foreignKey:GroupOrderID"`
	DeliveryPoints   []DeliveryPoint        `gorm:"many2many:group_order_delivery_points"`
	PaymentReferents []User                 `gorm:"many2many:group_order_payment_referents"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
