package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is a user role as assigned by the backend.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the cached profile of the signed-in user, as returned by the
// signin endpoint.
type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	AllowedDevices []string  `json:"allowedDevices"`
	Avatar         string    `json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CanSee reports whether the user may view the given device. Admins see
// everything; other roles are limited to their allowed device list.
func (u *User) CanSee(deviceID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, id := range u.AllowedDevices {
		if id == deviceID {
			return true
		}
	}
	return false
}

// Manager is the single source of truth for authentication state. All reads
// and writes go through the injected Store; nothing here touches the network.
type Manager struct {
	store Store
}

// NewManager creates a session manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Token returns the stored bearer token, if any.
func (m *Manager) Token() (string, bool) {
	return m.store.Get(KeyToken)
}

// User returns the stored user profile. A missing or malformed profile
// returns nil rather than an error: bad local state means "not signed in".
func (m *Manager) User() *User {
	raw, ok := m.store.Get(KeyUser)
	if !ok {
		return nil
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// IsAuthenticated reports whether both a token and a parseable user profile
// are present. Partial state counts as unauthenticated.
func (m *Manager) IsAuthenticated() bool {
	if _, ok := m.store.Get(KeyToken); !ok {
		return false
	}
	return m.User() != nil
}

// IsAuthorized reports whether the signed-in user holds one of the given
// roles. No user means no authorization.
func (m *Manager) IsAuthorized(roles ...Role) bool {
	u := m.User()
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// Login persists the token and profile together. The two keys are written
// as a pair so IsAuthenticated never observes one without the other for
// longer than a single write.
func (m *Manager) Login(token string, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user profile: %w", err)
	}
	if err := m.store.Set(KeyToken, token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if err := m.store.Set(KeyUser, string(raw)); err != nil {
		// Roll back the token so we never keep a half-written session.
		_ = m.store.Delete(KeyToken)
		return fmt.Errorf("storing user profile: %w", err)
	}
	return nil
}

// SelectedDevice returns the persisted device selection, if any.
func (m *Manager) SelectedDevice() (string, bool) {
	return m.store.Get(KeyDevice)
}

// SelectDevice persists the device selection.
func (m *Manager) SelectDevice(deviceID string) error {
	return m.store.Set(KeyDevice, deviceID)
}

// Logout tears the session down locally: token, profile, device selection
// and any other persisted client state are removed in one sweep. There is
// no network call; the backend session, if any, simply expires.
func (m *Manager) Logout() error {
	return m.store.Clear()
}
