package authentication

import (
	"time"
)

// RefreshToken is a server-side session record. The token value is opaque and
// only ever travels in the refresh cookie.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"not null;default:false"`
}

// ExpiredAt reports whether the token is past its expiry at now.
// A token expiring exactly at now is still valid.
func (t *RefreshToken) ExpiredAt(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// UsableAt reports whether the token may continue a session at now.
func (t *RefreshToken) UsableAt(now time.Time) bool {
	return !t.Revoked && !t.ExpiredAt(now)
}
