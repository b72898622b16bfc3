package models

import (
	"time"

	"github.com/google/uuid"
)

// Producer is a local farm or workshop the cooperative buys from.
// Deactivation hides it from new group orders without touching history.
type Producer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	Description  *string   `gorm:"column:description"`
	Location     *string   `gorm:"column:location"`
	ContactEmail *string   `gorm:"column:contact_email"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	Products     []Product `gorm:"foreignKey:ProducerID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
