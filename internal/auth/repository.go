package auth

import "context"

// Repository defines persistence for user accounts and reset tokens.
type Repository interface {
	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, id string) (*User, error)

	// CreateUser stores a new user.
	CreateUser(ctx context.Context, user *User) error

	// UpdatePassword replaces a user's password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// SaveResetToken stores a password reset token.
	SaveResetToken(ctx context.Context, token *ResetToken) error

	// GetResetToken retrieves a reset token by its value.
	GetResetToken(ctx context.Context, token string) (*ResetToken, error)

	// ConsumeResetToken marks a reset token as used.
	ConsumeResetToken(ctx context.Context, token string) error
}
