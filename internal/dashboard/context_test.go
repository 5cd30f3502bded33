package dashboard_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/dashboard"
	"github.com/kidwatch/kidwatch/internal/session"
)

func deviceServer(t *testing.T, deviceIDs ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, "[")
		for i, id := range deviceIDs {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"_id":"%d","deviceId":"%s","deviceName":"Device %s"}`, i+1, id, id)
		}
		fmt.Fprint(w, "]")
	}))
	t.Cleanup(server.Close)
	return server
}

func newContext(t *testing.T, serverURL string, user *session.User) (*dashboard.DeviceContext, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemStore())
	require.NoError(t, sessions.Login("tok", user))

	client := backend.NewClient(backend.ClientConfig{
		BaseURL:  serverURL,
		Sessions: sessions,
	})
	return dashboard.NewDeviceContext(client, sessions, zerolog.Nop()), sessions
}

func TestDeviceContext_StoredSelectionKept(t *testing.T) {
	server := deviceServer(t, "D1", "D2", "D3")
	devctx, sessions := newContext(t, server.URL, &session.User{ID: "u1", Role: session.RoleAdmin})
	require.NoError(t, sessions.SelectDevice("D2"))

	require.NoError(t, devctx.Load(context.Background()))

	assert.Equal(t, "D2", devctx.Selected())
	stored, ok := sessions.SelectedDevice()
	require.True(t, ok)
	assert.Equal(t, "D2", stored)
}

func TestDeviceContext_StaleSelectionFallsBackToFirst(t *testing.T) {
	server := deviceServer(t, "D1", "D3")
	devctx, sessions := newContext(t, server.URL, &session.User{ID: "u1", Role: session.RoleAdmin})
	require.NoError(t, sessions.SelectDevice("D2"))

	require.NoError(t, devctx.Load(context.Background()))

	assert.Equal(t, "D1", devctx.Selected())
	stored, ok := sessions.SelectedDevice()
	require.True(t, ok)
	assert.Equal(t, "D1", stored, "fallback selection must be persisted")
}

func TestDeviceContext_NoStoredSelectionPicksFirst(t *testing.T) {
	server := deviceServer(t, "D5", "D6")
	devctx, sessions := newContext(t, server.URL, &session.User{ID: "u1", Role: session.RoleAdmin})

	require.NoError(t, devctx.Load(context.Background()))

	assert.Equal(t, "D5", devctx.Selected())
	stored, _ := sessions.SelectedDevice()
	assert.Equal(t, "D5", stored)
}

func TestDeviceContext_RoleFiltersDevices(t *testing.T) {
	server := deviceServer(t, "D1", "D2", "D3")
	devctx, _ := newContext(t, server.URL, &session.User{
		ID:             "u1",
		Role:           session.RoleUser,
		AllowedDevices: []string{"D2"},
	})

	require.NoError(t, devctx.Load(context.Background()))

	devices := devctx.Devices()
	require.Len(t, devices, 1)
	assert.Equal(t, "D2", devices[0].DeviceID)
	assert.Equal(t, "D2", devctx.Selected())
}

func TestDeviceContext_EmptyVisibleSet(t *testing.T) {
	server := deviceServer(t, "D1", "D2")
	devctx, _ := newContext(t, server.URL, &session.User{
		ID:             "u1",
		Role:           session.RoleUser,
		AllowedDevices: []string{"D9"},
	})

	require.NoError(t, devctx.Load(context.Background()))

	assert.Empty(t, devctx.Devices())
	assert.Equal(t, "", devctx.Selected())

	state, err := devctx.State()
	assert.Equal(t, dashboard.DevicesReady, state)
	assert.NoError(t, err)
}

func TestDeviceContext_LoadErrorState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	devctx, _ := newContext(t, server.URL, &session.User{ID: "u1", Role: session.RoleAdmin})

	err := devctx.Load(context.Background())
	require.Error(t, err)

	state, loadErr := devctx.State()
	assert.Equal(t, dashboard.DeviceLoadError, state)
	assert.Error(t, loadErr)
	assert.Empty(t, devctx.Selected())
}

func TestDeviceContext_SelectUnknownDevice(t *testing.T) {
	server := deviceServer(t, "D1")
	devctx, _ := newContext(t, server.URL, &session.User{ID: "u1", Role: session.RoleAdmin})
	require.NoError(t, devctx.Load(context.Background()))

	err := devctx.Select("D9")
	require.Error(t, err)
	assert.Equal(t, "D1", devctx.Selected(), "failed select keeps the previous selection")
}
