package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ServiceConfig holds dependencies for the auth service.
type ServiceConfig struct {
	Repo       Repository
	JWTService *JWTService
	Logger     zerolog.Logger
}

// Service implements signin and the password reset flow.
type Service struct {
	repo   Repository
	jwt    *JWTService
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repo,
		jwt:    cfg.JWTService,
		logger: cfg.Logger,
	}
}

// SignIn validates the credentials and returns the user with a fresh access
// token. Unknown emails and wrong passwords produce the same error so the
// response does not reveal which accounts exist.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user signed in")
	return user, token, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(token)
}

// ForgotPassword issues a reset token for the account. The result is the
// same whether or not the email exists; the token only reaches the real
// account holder. Delivery is out of scope here, so the token is handed
// back to the caller (the handler passes it to the mail sender).
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	token, err := GenerateResetToken()
	if err != nil {
		return "", err
	}

	reset := &ResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
	}
	if err := s.repo.SaveResetToken(ctx, reset); err != nil {
		return "", fmt.Errorf("saving reset token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("password reset token issued")
	return token, nil
}

// ResetPassword redeems a reset token and sets the new password. Tokens are
// single use: a second redemption fails even inside the expiry window.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.repo.GetResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if !reset.Usable(time.Now()) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, reset.UserID, string(hash)); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := s.repo.ConsumeResetToken(ctx, token); err != nil {
		return fmt.Errorf("consuming reset token: %w", err)
	}

	s.logger.Info().Str("user_id", reset.UserID).Msg("password reset completed")
	return nil
}

// HashPassword hashes a plaintext password for storage. Used when seeding
// accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
