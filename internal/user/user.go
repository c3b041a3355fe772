package user

import (
	"time"
)

// User is an account of the wardrobe application.
// @Description user account
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Username (unique)
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	// Email address (unique)
	Email string `json:"email" gorm:"uniqueIndex;not null"`
	// PasswordHash is a bcrypt hash and never leaves the service.
	PasswordHash string `json:"-" gorm:"not null"`
	IsAdmin      bool   `json:"is_admin" gorm:"not null;default:false"`
}

// NewUser initializes a non-administrator account.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
}
