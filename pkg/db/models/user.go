package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// User mirrors the accounts managed by the external auth provider. The API
// never authenticates users itself; it reads this table for names, roles and
// account status.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;not null"`
	Email     string           `gorm:"column:email;not null;uniqueIndex"`
	Role      enums.UserRole   `gorm:"column:role;type:text;not null;default:'MEMBER'"`
	Status    enums.UserStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	Commune   *string          `gorm:"column:commune"`
	Phone     *string          `gorm:"column:phone"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
