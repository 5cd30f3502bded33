package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/auth"
)

func newService(t *testing.T) (*auth.Service, *auth.MemoryRepository) {
	t.Helper()
	repo := auth.NewMemoryRepository()
	svc := auth.NewService(auth.ServiceConfig{
		Repo:       repo,
		JWTService: auth.NewJWTService(auth.JWTConfig{SigningKey: "test-signing-key"}),
		Logger:     zerolog.Nop(),
	})
	return svc, repo
}

func createUser(t *testing.T, repo *auth.MemoryRepository, email, password string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &auth.User{
		ID:             "u-" + email,
		Name:           "Test User",
		Email:          email,
		Role:           "parent",
		AllowedDevices: []string{"DEV-1"},
		PasswordHash:   hash,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestService_SignIn(t *testing.T) {
	svc, repo := newService(t)
	createUser(t, repo, "pat@example.com", "secret")

	user, token, err := svc.SignIn(context.Background(), "pat@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "parent", claims.Role)
	assert.Equal(t, []string{"DEV-1"}, claims.AllowedDevices)
}

func TestService_SignInBadCredentials(t *testing.T) {
	svc, repo := newService(t)
	createUser(t, repo, "pat@example.com", "secret")

	// Wrong password and unknown email produce the same error.
	_, _, err := svc.SignIn(context.Background(), "pat@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.SignIn(context.Background(), "nobody@example.com", "secret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_ValidateRejectsForgedToken(t *testing.T) {
	svc, repo := newService(t)
	user := createUser(t, repo, "pat@example.com", "secret")

	other := auth.NewJWTService(auth.JWTConfig{SigningKey: "different-key"})
	forged, err := other.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(forged)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestService_PasswordResetFlow(t *testing.T) {
	svc, repo := newService(t)
	createUser(t, repo, "pat@example.com", "oldpass")
	ctx := context.Background()

	token, err := svc.ForgotPassword(ctx, "pat@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "newpass"))

	_, _, err = svc.SignIn(ctx, "pat@example.com", "oldpass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "pat@example.com", "newpass")
	assert.NoError(t, err)
}

func TestService_ResetTokenSingleUse(t *testing.T) {
	svc, repo := newService(t)
	createUser(t, repo, "pat@example.com", "oldpass")
	ctx := context.Background()

	token, err := svc.ForgotPassword(ctx, "pat@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, token, "first"))
	err = svc.ResetPassword(ctx, token, "second")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
}

func TestService_ForgotPasswordUnknownEmail(t *testing.T) {
	svc, _ := newService(t)

	// No error and no token: the caller cannot tell the account is missing.
	token, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestService_ResetPasswordBadToken(t *testing.T) {
	svc, _ := newService(t)

	err := svc.ResetPassword(context.Background(), "no-such-token", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
}
