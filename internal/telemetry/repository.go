package telemetry

import "context"

// Repository defines persistence for devices and their telemetry
// collections. Writes come from the ingest worker; reads serve the API.
type Repository interface {
	// ListDevices returns every registered device.
	ListDevices(ctx context.Context) ([]*Device, error)

	// GetDevice returns one device by its external device id.
	GetDevice(ctx context.Context, deviceID string) (*Device, error)

	// UpsertDevice creates or replaces a device record keyed on deviceId.
	UpsertDevice(ctx context.Context, device *Device) error

	// ListContacts returns the contacts synced from a device.
	ListContacts(ctx context.Context, deviceID string) ([]*Contact, error)

	// AddContact stores one contact.
	AddContact(ctx context.Context, contact *Contact) error

	// ListCalls returns the call log for a device ordered newest first,
	// with the total count for pagination.
	ListCalls(ctx context.Context, deviceID string, offset, limit int) ([]*CallRecord, int, error)

	// AddCall stores one call record.
	AddCall(ctx context.Context, call *CallRecord) error

	// ListSMS returns the SMS log for a device ordered newest first, with
	// the total count for pagination.
	ListSMS(ctx context.Context, deviceID string, offset, limit int) ([]*SMSRecord, int, error)

	// AddSMS stores one SMS record.
	AddSMS(ctx context.Context, sms *SMSRecord) error

	// ListLocations returns the location history for a device.
	ListLocations(ctx context.Context, deviceID string) ([]*Location, error)

	// AddLocation stores one location fix.
	AddLocation(ctx context.Context, loc *Location) error

	// ListActiveApplications returns the currently active applications.
	ListActiveApplications(ctx context.Context, deviceID string) ([]*Application, error)

	// AddApplication stores one application snapshot.
	AddApplication(ctx context.Context, app *Application) error

	// ListActiveProcesses returns the currently active processes.
	ListActiveProcesses(ctx context.Context, deviceID string) ([]*ProcessActivity, error)

	// AddProcessActivity stores one process snapshot.
	AddProcessActivity(ctx context.Context, proc *ProcessActivity) error

	// ListUnreadNotifications returns unread notifications for a device.
	ListUnreadNotifications(ctx context.Context, deviceID string) ([]*Notification, error)

	// AddNotification stores one notification.
	AddNotification(ctx context.Context, note *Notification) error
}
