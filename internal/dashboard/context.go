// Package dashboard wires the backend client, session state, and table
// rendering into device-scoped views: resolve a device, fetch its
// collection, bind it to a table.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/session"
)

// State is the device-loading state of a DeviceContext.
type State int

const (
	Idle State = iota
	LoadingDevices
	DevicesReady
	DeviceLoadError
)

// ErrNoProfile is returned when the device list loads but no user profile
// is available to derive device visibility from.
var ErrNoProfile = errors.New("no user profile in session")

// DeviceContext resolves which devices the signed-in user may see and which
// one is currently selected, persisting the selection across runs.
type DeviceContext struct {
	client   *backend.Client
	sessions *session.Manager
	logger   zerolog.Logger

	mu       sync.Mutex
	state    State
	devices  []backend.Device
	selected string
	loadErr  error
}

// NewDeviceContext creates a device context. Load must be called before
// Devices or Selected return anything useful.
func NewDeviceContext(client *backend.Client, sessions *session.Manager, logger zerolog.Logger) *DeviceContext {
	return &DeviceContext{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Load fetches the device list, applies role-based visibility, and resolves
// the selection: a stored device id is kept if still visible, otherwise the
// first visible device is selected and persisted, otherwise the selection
// stays empty and consumers must render a "no device" state.
func (d *DeviceContext) Load(ctx context.Context) error {
	d.setState(LoadingDevices, nil)

	devices, err := d.client.Devices(ctx)
	if err != nil {
		d.setState(DeviceLoadError, err)
		return err
	}

	user := d.sessions.User()
	if user == nil {
		d.setState(DeviceLoadError, ErrNoProfile)
		return ErrNoProfile
	}

	visible := filterVisible(devices, user)

	d.mu.Lock()
	d.devices = visible
	d.state = DevicesReady
	d.loadErr = nil
	d.selected = ""
	d.mu.Unlock()

	return d.resolveSelection(visible)
}

// filterVisible restricts the device list to what the user's role allows.
// Admins see the fetched list unchanged.
func filterVisible(devices []backend.Device, user *session.User) []backend.Device {
	if user.Role == session.RoleAdmin {
		return devices
	}

	visible := make([]backend.Device, 0, len(devices))
	for _, dev := range devices {
		if user.CanSee(dev.DeviceID) {
			visible = append(visible, dev)
		}
	}
	return visible
}

func (d *DeviceContext) resolveSelection(visible []backend.Device) error {
	stored, ok := d.sessions.SelectedDevice()
	if ok && containsDevice(visible, stored) {
		// Keep the stored selection; no redundant write.
		d.mu.Lock()
		d.selected = stored
		d.mu.Unlock()
		return nil
	}

	if len(visible) == 0 {
		d.logger.Debug().Msg("no visible devices for user")
		return nil
	}

	first := visible[0].DeviceID
	d.mu.Lock()
	d.selected = first
	d.mu.Unlock()

	if err := d.sessions.SelectDevice(first); err != nil {
		d.logger.Error().Err(err).Msg("persisting device selection")
		return err
	}
	return nil
}

func containsDevice(devices []backend.Device, deviceID string) bool {
	for _, dev := range devices {
		if dev.DeviceID == deviceID {
			return true
		}
	}
	return false
}

// Select changes the selection and persists it immediately. The device must
// be in the visible set resolved by the last Load.
func (d *DeviceContext) Select(deviceID string) error {
	d.mu.Lock()
	if !containsDevice(d.devices, deviceID) {
		d.mu.Unlock()
		return errors.New("unknown device: " + deviceID)
	}
	d.selected = deviceID
	d.mu.Unlock()

	return d.sessions.SelectDevice(deviceID)
}

// Devices returns the visible device list from the last successful Load.
func (d *DeviceContext) Devices() []backend.Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.devices
}

// Selected returns the resolved device id, or "" when no device is
// available.
func (d *DeviceContext) Selected() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// State returns the loading state, with the load error when in
// DeviceLoadError.
func (d *DeviceContext) State() (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.loadErr
}

func (d *DeviceContext) setState(s State, err error) {
	d.mu.Lock()
	d.state = s
	d.loadErr = err
	d.mu.Unlock()
}
