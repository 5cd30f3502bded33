package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry is how long access tokens are valid. The dashboard
// holds a single token per session; expiry simply forces a fresh signin.
const AccessTokenExpiry = 24 * time.Hour

// ResetTokenExpiry is how long password reset tokens are valid.
const ResetTokenExpiry = 1 * time.Hour

// resetTokenLength is the byte length of reset tokens (256 bits of entropy).
const resetTokenLength = 32

// Predefined token errors.
var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenExpired = errors.New("access token has expired")
)

// Claims are the claims carried by kidwatch access tokens. Role and the
// allowed device list travel in the token so the API can enforce device
// visibility without a user lookup per request.
type Claims struct {
	jwt.RegisteredClaims

	UserID         string   `json:"uid"`
	Role           string   `json:"role"`
	AllowedDevices []string `json:"allowedDevices,omitempty"`
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey is the secret key used to sign tokens.
	SigningKey string

	// Issuer is the issuer claim (e.g. "kidwatch-api").
	Issuer string
}

// JWTService creates and validates access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "kidwatch-api"
	}
	return &JWTService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     issuer,
	}
}

// GenerateAccessToken creates a signed access token for the user.
func (s *JWTService) GenerateAccessToken(user *User) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:         user.ID,
		Role:           user.Role,
		AllowedDevices: user.AllowedDevices,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken validates a token string and returns its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAccessTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidAccessToken, err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// GenerateResetToken creates a new opaque password reset token.
func GenerateResetToken() (string, error) {
	bytes := make([]byte, resetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
