package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/session"
)

func TestManager_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  string
		want  bool
	}{
		{
			name:  "token and user present",
			token: "tok-123",
			user:  `{"_id":"u1","name":"Pat","email":"pat@example.com","role":"user"}`,
			want:  true,
		},
		{
			name: "no token",
			user: `{"_id":"u1","name":"Pat","email":"pat@example.com","role":"user"}`,
			want: false,
		},
		{
			name:  "no user",
			token: "tok-123",
			want:  false,
		},
		{
			name:  "malformed user treated as absent",
			token: "tok-123",
			user:  `{"_id":`,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := session.NewMemStore()
			if tt.token != "" {
				require.NoError(t, store.Set(session.KeyToken, tt.token))
			}
			if tt.user != "" {
				require.NoError(t, store.Set(session.KeyUser, tt.user))
			}

			m := session.NewManager(store)
			assert.Equal(t, tt.want, m.IsAuthenticated())
		})
	}
}

func TestManager_UserMalformedJSON(t *testing.T) {
	store := session.NewMemStore()
	require.NoError(t, store.Set(session.KeyUser, "not json"))

	m := session.NewManager(store)
	assert.Nil(t, m.User())
}

func TestManager_IsAuthorized(t *testing.T) {
	store := session.NewMemStore()
	require.NoError(t, store.Set(session.KeyToken, "tok"))
	require.NoError(t, store.Set(session.KeyUser, `{"_id":"u1","role":"admin"}`))

	m := session.NewManager(store)
	assert.True(t, m.IsAuthorized(session.RoleAdmin))
	assert.True(t, m.IsAuthorized(session.RoleUser, session.RoleAdmin))
	assert.False(t, m.IsAuthorized(session.RoleUser))
}

func TestManager_LoginStoresTokenAndUser(t *testing.T) {
	store := session.NewMemStore()
	m := session.NewManager(store)

	err := m.Login("tok-abc", &session.User{
		ID:    "u1",
		Name:  "Pat",
		Email: "pat@example.com",
		Role:  session.RoleUser,
	})
	require.NoError(t, err)

	token, ok := m.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)

	user := m.User()
	require.NotNil(t, user)
	assert.Equal(t, "pat@example.com", user.Email)
	assert.True(t, m.IsAuthenticated())
}

func TestManager_LogoutClearsEverything(t *testing.T) {
	store := session.NewMemStore()
	m := session.NewManager(store)

	require.NoError(t, m.Login("tok", &session.User{ID: "u1", Role: session.RoleUser}))
	require.NoError(t, m.SelectDevice("DEV-1"))

	require.NoError(t, m.Logout())

	_, ok := m.Token()
	assert.False(t, ok)
	assert.Nil(t, m.User())
	_, ok = m.SelectedDevice()
	assert.False(t, ok)
}

func TestUser_CanSee(t *testing.T) {
	admin := &session.User{Role: session.RoleAdmin}
	assert.True(t, admin.CanSee("anything"))

	parent := &session.User{Role: session.RoleUser, AllowedDevices: []string{"DEV-1", "DEV-2"}}
	assert.True(t, parent.CanSee("DEV-1"))
	assert.False(t, parent.CanSee("DEV-3"))
}
