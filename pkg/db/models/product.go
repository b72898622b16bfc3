package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// Product is a producer catalogue entry. Prices are fixed-point decimals;
// UnitQuantity expresses the pack size (e.g. 5 kg per crate).
type Product struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProducerID         uuid.UUID       `gorm:"column:producer_id;type:uuid;not null"`
	Name               string          `gorm:"column:name;not null"`
	Description        *string         `gorm:"column:description"`
	UnitType           enums.UnitType  `gorm:"column:unit_type;type:text;not null"`
	UnitQuantity       decimal.Decimal `gorm:"column:unit_quantity;type:numeric(10,3);not null"`
	PriceProducer      decimal.Decimal `gorm:"column:price_producer;type:numeric(10,2);not null"`
	PriceWithTransport decimal.Decimal `gorm:"column:price_with_transport;type:numeric(10,2);not null"`
	IsActive           bool            `gorm:"column:is_active;not null;default:true"`
	Producer           *Producer       `gorm:"foreignKey:ProducerID"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
