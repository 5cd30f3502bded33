package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kidwatch/kidwatch/internal/auth"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

// claimsKey is the context key for the validated access token claims.
type claimsKey struct{}

// Auth validates the bearer token and stores its claims in the request
// context. Missing or invalid tokens answer 401; the dashboard client
// treats that as a session teardown.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if header == "" || len(header) <= len(prefix) ||
				!strings.EqualFold(header[:len(prefix)], prefix) {
				writeMessage(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := authService.ValidateAccessToken(header[len(prefix):])
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the access token claims from the context, or nil when
// the request is unauthenticated.
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// GetUserID retrieves the authenticated user id from the context.
func GetUserID(ctx context.Context) string {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// ViewerFromContext builds the telemetry viewer from the token claims so
// device visibility is enforced without a user lookup per request.
func ViewerFromContext(ctx context.Context) telemetry.Viewer {
	claims := GetClaims(ctx)
	if claims == nil {
		return telemetry.Viewer{}
	}
	return telemetry.Viewer{
		Role:           claims.Role,
		AllowedDevices: claims.AllowedDevices,
	}
}
