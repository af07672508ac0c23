package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role names seeded at startup, in ascending privilege order.
const (
	RoleUser       = "user"
	RoleCreator    = "creator"
	RoleModerator  = "moderator"
	RoleSuperadmin = "superadmin"
)

type Role struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;size:30"`
	Description string `json:"description"`
}

type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Email           string    `json:"email" gorm:"uniqueIndex"`
	Username        string    `json:"username" gorm:"uniqueIndex"`
	PasswordHash    string    `json:"-"`
	IsVerified      bool      `json:"is_verified" gorm:"default:false"`
	RoleID          uint      `json:"-"`
	Role            Role      `json:"role"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsElevated reports whether the user holds a moderation-capable role.
func (u *User) IsElevated() bool {
	return u.Role.Name == RoleModerator || u.Role.Name == RoleSuperadmin
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserSummary is the compact author representation embedded in responses
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (u *User) ToSummary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
