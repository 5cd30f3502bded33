package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/session"
)

// countingStore wraps a store and counts Clear calls so tests can assert
// the session is torn down exactly once.
type countingStore struct {
	session.Store
	clears int
}

func (s *countingStore) Clear() error {
	s.clears++
	return s.Store.Clear()
}

// countingTransport counts round trips so tests can assert a request never
// reached the network.
type countingTransport struct {
	inner    http.RoundTripper
	requests int
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests++
	return t.inner.RoundTrip(req)
}

func signedInManager(t *testing.T, store session.Store) *session.Manager {
	t.Helper()
	m := session.NewManager(store)
	require.NoError(t, m.Login("tok-test", &session.User{
		ID:    "u1",
		Name:  "Pat",
		Email: "pat@example.com",
		Role:  session.RoleAdmin,
	}))
	return m
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	store := &countingStore{Store: session.NewMemStore()}
	sessions := session.NewManager(store)

	transport := &countingTransport{inner: http.DefaultTransport}
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:    "http://example.invalid/api",
		Sessions:   sessions,
		HTTPClient: &http.Client{Transport: transport},
	})

	_, err := client.Devices(context.Background())
	require.ErrorIs(t, err, backend.ErrNoToken)
	assert.Equal(t, 0, transport.requests, "request must not reach the network")
	assert.Equal(t, 1, store.clears, "session must be torn down")
}

func TestClient_UnauthorizedLogsOutOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := &countingStore{Store: session.NewMemStore()}
	sessions := signedInManager(t, store)

	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Devices(context.Background())
	require.ErrorIs(t, err, backend.ErrUnauthorized)
	assert.Equal(t, 1, store.clears)
	assert.False(t, sessions.IsAuthenticated())
}

func TestClient_ServerErrorKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	store := &countingStore{Store: session.NewMemStore()}
	sessions := signedInManager(t, store)

	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Devices(context.Background())

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, 0, store.clears, "session survives non-auth failures")
	assert.True(t, sessions.IsAuthenticated())
}

func TestClient_TransportErrorKeepsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Devices(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, backend.ErrUnauthorized))
	assert.True(t, sessions.IsAuthenticated())
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Devices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-test", gotAuth)
}

func TestClient_DevicesRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/devices", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id":"1","deviceId":"DEV-1","deviceName":"Alex's Phone"},
			{"_id":"2","deviceId":"DEV-2","deviceName":"Sam's Tablet"}
		]`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "DEV-1", devices[0].DeviceID)
	assert.Equal(t, "Sam's Tablet", devices[1].DeviceName)
}

func TestClient_CallsPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calls/device/DEV-1", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"callRecords":[{"_id":"c1","deviceId":"DEV-1","caller":"+3161234","duration":42,"type":"incoming","timestamp":"2025-08-01T10:00:00Z"}],
			"pagination":{"total":45,"page":2,"pages":3}
		}`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	resp, err := client.Calls(context.Background(), "DEV-1", 2)
	require.NoError(t, err)
	require.Len(t, resp.CallRecords, 1)
	assert.Equal(t, 42, resp.CallRecords[0].Duration)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.Pages)
}

func TestClient_CallsOmitsZeroPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"callRecords":[],"pagination":{"total":0,"page":1,"pages":0}}`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Calls(context.Background(), "DEV-1", 0)
	require.NoError(t, err)
}

func TestClient_BadPaginationIsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// page outside [1, pages]
		w.Write([]byte(`{"smsRecords":[],"pagination":{"total":10,"page":7,"pages":2}}`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.SMS(context.Background(), "DEV-1", 7)
	require.ErrorIs(t, err, backend.ErrBadResponse)
	assert.True(t, sessions.IsAuthenticated(), "validation failures keep the session")
}

func TestClient_MalformedBodyIsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"callRecords":`))
	}))
	defer server.Close()

	sessions := signedInManager(t, session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.Calls(context.Background(), "DEV-1", 0)
	require.ErrorIs(t, err, backend.ErrBadResponse)
}

func TestClient_SignInStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signin", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"user":{"_id":"u1","name":"Pat","email":"pat@example.com","role":"user","allowedDevices":["DEV-1"]},
			"token":"fresh-token"
		}`))
	}))
	defer server.Close()

	sessions := session.NewManager(session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	user, err := client.SignIn(context.Background(), "pat@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Pat", user.Name)

	token, ok := sessions.Token()
	require.True(t, ok)
	assert.Equal(t, "fresh-token", token)
	assert.True(t, sessions.IsAuthenticated())
}

func TestClient_SignInFailureSurfacesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer server.Close()

	sessions := session.NewManager(session.NewMemStore())
	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  server.URL,
		Sessions: sessions,
	})

	_, err := client.SignIn(context.Background(), "pat@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	var statusErr *backend.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)

	_, ok := sessions.Token()
	assert.False(t, ok, "failed signin must not store a token")
}
