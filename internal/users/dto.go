package users

import (
	"github.com/google/uuid"

	"github.com/minhvu-dev/foodpos-backend/pkg/enums"
)

// CreateUserInput carries the fields for a new dashboard account.
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Phone    string
	Role     enums.UserRole
}

// UpdateUserInput carries the editable fields of a user. Nil pointers leave
// the stored value untouched.
type UpdateUserInput struct {
	UserID   uuid.UUID
	Email    *string
	FullName *string
	Phone    *string
	Role     *enums.UserRole
	IsActive *bool
}

// ChangePasswordInput rotates a user's password after verifying the old one.
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// GuestInput identifies a walk-in customer by contact details.
type GuestInput struct {
	FullName string
	Phone    string
	Email    string
}

// UserFilters describe the inputs supported by the user list.
type UserFilters struct {
	Role       *enums.UserRole
	ActiveOnly bool
	Query      string
}
