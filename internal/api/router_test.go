package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/api"
	"github.com/kidwatch/kidwatch/internal/auth"
	"github.com/kidwatch/kidwatch/internal/telemetry"
)

const testEmail = "parent@example.com"
const testPassword = "secret123"

// newTestRouter builds a router over in-memory repositories with one
// parent account scoped to DEV-1 and two seeded devices.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	authRepo := auth.NewMemoryRepository()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, authRepo.CreateUser(ctx, &auth.User{
		ID:             "u1",
		Name:           "Pat Parent",
		Email:          testEmail,
		Role:           "parent",
		AllowedDevices: []string{"DEV-1"},
		PasswordHash:   hash,
	}))

	telemetryRepo := telemetry.NewMemoryRepository()
	for _, id := range []string{"DEV-1", "DEV-2"} {
		require.NoError(t, telemetryRepo.UpsertDevice(ctx, &telemetry.Device{
			ID:         id,
			DeviceID:   id,
			DeviceName: "Device " + id,
		}))
	}
	require.NoError(t, telemetryRepo.AddCall(ctx, &telemetry.CallRecord{
		ID:       "c1",
		DeviceID: "DEV-1",
		Caller:   "+15550001111",
		Type:     "incoming",
		Duration: 60,
	}))

	authService := auth.NewService(auth.ServiceConfig{
		Repo:       authRepo,
		JWTService: auth.NewJWTService(auth.JWTConfig{SigningKey: "test-secret-key"}),
		Logger:     zerolog.Nop(),
	})

	return api.NewRouter(api.RouterConfig{
		Version:          "test",
		Logger:           zerolog.Nop(),
		AuthService:      authService,
		TelemetryService: telemetry.NewService(telemetryRepo),
	})
}

func signIn(t *testing.T, router http.Handler) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, testEmail, resp.User.Email)
	return resp.Token
}

func authedGet(router http.Handler, token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)
	rec := authedGet(router, "", "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SignInWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	body := []byte(`{"email":"parent@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid email or password", resp["message"])
}

func TestRouter_DevicesRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := authedGet(router, "", "/api/devices")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = authedGet(router, "not-a-token", "/api/devices")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_DevicesScopedToRole(t *testing.T) {
	router := newTestRouter(t)
	token := signIn(t, router)

	rec := authedGet(router, token, "/api/devices")
	require.Equal(t, http.StatusOK, rec.Code)

	var devices []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &devices))
	require.Len(t, devices, 1, "parent sees only allowed devices")
	assert.Equal(t, "DEV-1", devices[0]["deviceId"])
}

func TestRouter_ForbiddenDeviceReadsAsNotFound(t *testing.T) {
	router := newTestRouter(t)
	token := signIn(t, router)

	rec := authedGet(router, token, "/api/devices/DEV-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = authedGet(router, token, "/api/calls/device/DEV-2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CallsEnvelope(t *testing.T) {
	router := newTestRouter(t)
	token := signIn(t, router)

	rec := authedGet(router, token, "/api/calls/device/DEV-1?page=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CallRecords []map[string]any `json:"callRecords"`
		Pagination  struct {
			Total int `json:"total"`
			Page  int `json:"page"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.CallRecords, 1)
	assert.Equal(t, "c1", resp.CallRecords[0]["_id"])
	assert.Equal(t, 1, resp.Pagination.Total)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 1, resp.Pagination.Pages)
}

func TestRouter_CallsClampsPage(t *testing.T) {
	router := newTestRouter(t)
	token := signIn(t, router)

	rec := authedGet(router, token, "/api/calls/device/DEV-1?page=99")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Pagination struct {
			Page  int `json:"page"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Pagination.Page, "out-of-range pages clamp to the last page")
}

func TestRouter_EmptyCollectionsAreArrays(t *testing.T) {
	router := newTestRouter(t)
	token := signIn(t, router)

	rec := authedGet(router, token, "/api/contacts/device/DEV-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty collection must be [] not null")
}

func TestRouter_ForgotPasswordAlwaysOK(t *testing.T) {
	router := newTestRouter(t)

	for _, email := range []string{testEmail, "nobody@example.com"} {
		body := []byte(`{"email":"` + email + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, email)
	}
}
