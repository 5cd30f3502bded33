package telemetry

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository used for local development and
// tests. Collections are kept per device id.
type MemoryRepository struct {
	mu            sync.RWMutex
	devices       map[string]*Device
	contacts      map[string][]*Contact
	calls         map[string][]*CallRecord
	sms           map[string][]*SMSRecord
	locations     map[string][]*Location
	applications  map[string][]*Application
	processes     map[string][]*ProcessActivity
	notifications map[string][]*Notification
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		devices:       make(map[string]*Device),
		contacts:      make(map[string][]*Contact),
		calls:         make(map[string][]*CallRecord),
		sms:           make(map[string][]*SMSRecord),
		locations:     make(map[string][]*Location),
		applications:  make(map[string][]*Application),
		processes:     make(map[string][]*ProcessActivity),
		notifications: make(map[string][]*Notification),
	}
}

func (r *MemoryRepository) ListDevices(_ context.Context) ([]*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		copied := *d
		devices = append(devices, &copied)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].DeviceID < devices[j].DeviceID
	})
	return devices, nil
}

func (r *MemoryRepository) GetDevice(_ context.Context, deviceID string) (*Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.devices[deviceID]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *MemoryRepository) UpsertDevice(_ context.Context, device *Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *device
	r.devices[device.DeviceID] = &copied
	return nil
}

func (r *MemoryRepository) ListContacts(_ context.Context, deviceID string) ([]*Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Contact(nil), r.contacts[deviceID]...), nil
}

func (r *MemoryRepository) AddContact(_ context.Context, contact *Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[contact.DeviceID] = append(r.contacts[contact.DeviceID], contact)
	return nil
}

func (r *MemoryRepository) ListCalls(_ context.Context, deviceID string, offset, limit int) ([]*CallRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := append([]*CallRecord(nil), r.calls[deviceID]...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	page := slicePage(all, offset, limit)
	return page, len(all), nil
}

func (r *MemoryRepository) AddCall(_ context.Context, call *CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[call.DeviceID] = append(r.calls[call.DeviceID], call)
	return nil
}

func (r *MemoryRepository) ListSMS(_ context.Context, deviceID string, offset, limit int) ([]*SMSRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := append([]*SMSRecord(nil), r.sms[deviceID]...)
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	page := slicePage(all, offset, limit)
	return page, len(all), nil
}

func (r *MemoryRepository) AddSMS(_ context.Context, sms *SMSRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sms[sms.DeviceID] = append(r.sms[sms.DeviceID], sms)
	return nil
}

func (r *MemoryRepository) ListLocations(_ context.Context, deviceID string) ([]*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Location(nil), r.locations[deviceID]...), nil
}

func (r *MemoryRepository) AddLocation(_ context.Context, loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations[loc.DeviceID] = append(r.locations[loc.DeviceID], loc)
	return nil
}

func (r *MemoryRepository) ListActiveApplications(_ context.Context, deviceID string) ([]*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*Application
	for _, a := range r.applications[deviceID] {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (r *MemoryRepository) AddApplication(_ context.Context, app *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications[app.DeviceID] = append(r.applications[app.DeviceID], app)
	return nil
}

func (r *MemoryRepository) ListActiveProcesses(_ context.Context, deviceID string) ([]*ProcessActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []*ProcessActivity
	for _, p := range r.processes[deviceID] {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (r *MemoryRepository) AddProcessActivity(_ context.Context, proc *ProcessActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processes[proc.DeviceID] = append(r.processes[proc.DeviceID], proc)
	return nil
}

func (r *MemoryRepository) ListUnreadNotifications(_ context.Context, deviceID string) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var unread []*Notification
	for _, n := range r.notifications[deviceID] {
		if !n.IsRead {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

func (r *MemoryRepository) AddNotification(_ context.Context, note *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[note.DeviceID] = append(r.notifications[note.DeviceID], note)
	return nil
}

// slicePage bounds [offset, offset+limit) against the slice length.
func slicePage[T any](all []T, offset, limit int) []T {
	if offset >= len(all) || offset < 0 {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
