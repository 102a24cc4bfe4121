package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// User is a dashboard account. Guest users are created on the fly from
// customer contact details when an order arrives without an operator login.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string         `gorm:"column:username;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"column:email;index" json:"email"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	FullName     string         `gorm:"column:full_name" json:"full_name"`
	Phone        string         `gorm:"column:phone" json:"phone"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'staff'" json:"role"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsGuest      bool           `gorm:"column:is_guest;not null;default:false" json:"is_guest"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
