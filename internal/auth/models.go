// Package auth provides email/password authentication and access tokens
// for the kidwatch API.
package auth

import (
	"errors"
	"time"
)

// Predefined auth errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// User is an account that can sign in to the dashboard.
type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	AllowedDevices []string  `json:"allowedDevices"`
	PasswordHash   string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ResetToken is a single-use password reset token sent by email.
type ResetToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Usable reports whether the token can still redeem a password reset.
func (t *ResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
