package models

import "time"

// Session is a refresh-token session. One row per issued refresh token;
// refreshing rotates the row, logging out deletes it.
type Session struct {
	Base
	UserID           string    `gorm:"type:uuid;not null;index" json:"user_id"`
	RefreshTokenHash string    `gorm:"size:64;not null" json:"-"`
	RememberMe       bool      `gorm:"default:false" json:"remember_me"`
	ExpiresAt        time.Time `gorm:"not null" json:"expires_at"`
}

// Expired reports whether the session can no longer be refreshed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
