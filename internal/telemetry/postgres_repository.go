package telemetry

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Nested metadata (call/sms enrichment, device settings, notification
// extras) is stored as JSONB and scanned through pgx's JSON support.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL telemetry repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListDevices(ctx context.Context) ([]*Device, error) {
	query := `
		SELECT id, device_id, device_name, device_type, os_version, manufacturer,
		       status, battery_level, child_id, last_seen, settings
		FROM devices
		ORDER BY device_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *PostgresRepository) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	query := `
		SELECT id, device_id, device_name, device_type, os_version, manufacturer,
		       status, battery_level, child_id, last_seen, settings
		FROM devices
		WHERE device_id = $1
	`

	d, err := scanDevice(r.pool.QueryRow(ctx, query, deviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) UpsertDevice(ctx context.Context, device *Device) error {
	query := `
		INSERT INTO devices (id, device_id, device_name, device_type, os_version,
		                     manufacturer, status, battery_level, child_id, last_seen, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (device_id) DO UPDATE SET
			device_name = EXCLUDED.device_name,
			device_type = EXCLUDED.device_type,
			os_version = EXCLUDED.os_version,
			manufacturer = EXCLUDED.manufacturer,
			status = EXCLUDED.status,
			battery_level = EXCLUDED.battery_level,
			child_id = EXCLUDED.child_id,
			last_seen = EXCLUDED.last_seen,
			settings = EXCLUDED.settings
	`

	_, err := r.pool.Exec(ctx, query,
		device.ID, device.DeviceID, device.DeviceName, device.DeviceType,
		device.OSVersion, device.Manufacturer, device.Status, device.BatteryLevel,
		device.ChildID, device.LastSeen, device.Settings,
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*Device, error) {
	var d Device
	err := row.Scan(
		&d.ID, &d.DeviceID, &d.DeviceName, &d.DeviceType, &d.OSVersion,
		&d.Manufacturer, &d.Status, &d.BatteryLevel, &d.ChildID, &d.LastSeen,
		&d.Settings,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresRepository) ListContacts(ctx context.Context, deviceID string) ([]*Contact, error) {
	query := `
		SELECT id, device_id, name, phone_numbers, email_addresses,
		       is_favorite, is_deleted, groups, last_updated
		FROM contacts
		WHERE device_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(
			&c.ID, &c.DeviceID, &c.Name, &c.PhoneNumbers, &c.EmailAddresses,
			&c.IsFavorite, &c.IsDeleted, &c.Groups, &c.LastUpdated,
		); err != nil {
			return nil, err
		}
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}

func (r *PostgresRepository) AddContact(ctx context.Context, contact *Contact) error {
	query := `
		INSERT INTO contacts (id, device_id, name, phone_numbers, email_addresses,
		                      is_favorite, is_deleted, groups, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		contact.ID, contact.DeviceID, contact.Name, contact.PhoneNumbers,
		contact.EmailAddresses, contact.IsFavorite, contact.IsDeleted,
		contact.Groups, contact.LastUpdated,
	)
	return err
}

func (r *PostgresRepository) ListCalls(ctx context.Context, deviceID string, offset, limit int) ([]*CallRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM call_records WHERE device_id = $1`, deviceID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, device_id, caller, receiver, duration, type, status,
		       is_blocked, timestamp, metadata
		FROM call_records
		WHERE device_id = $1
		ORDER BY timestamp DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, deviceID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var calls []*CallRecord
	for rows.Next() {
		var c CallRecord
		if err := rows.Scan(
			&c.ID, &c.DeviceID, &c.Caller, &c.Receiver, &c.Duration, &c.Type,
			&c.Status, &c.IsBlocked, &c.Timestamp, &c.Metadata,
		); err != nil {
			return nil, 0, err
		}
		calls = append(calls, &c)
	}
	return calls, total, rows.Err()
}

func (r *PostgresRepository) AddCall(ctx context.Context, call *CallRecord) error {
	query := `
		INSERT INTO call_records (id, device_id, caller, receiver, duration,
		                          type, status, is_blocked, timestamp, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		call.ID, call.DeviceID, call.Caller, call.Receiver, call.Duration,
		call.Type, call.Status, call.IsBlocked, call.Timestamp, call.Metadata,
	)
	return err
}

func (r *PostgresRepository) ListSMS(ctx context.Context, deviceID string, offset, limit int) ([]*SMSRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM sms_records WHERE device_id = $1`, deviceID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, device_id, sender, receiver, message, type, status,
		       is_blocked, timestamp, metadata
		FROM sms_records
		WHERE device_id = $1
		ORDER BY timestamp DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, deviceID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []*SMSRecord
	for rows.Next() {
		var m SMSRecord
		if err := rows.Scan(
			&m.ID, &m.DeviceID, &m.Sender, &m.Receiver, &m.Message, &m.Type,
			&m.Status, &m.IsBlocked, &m.Timestamp, &m.Metadata,
		); err != nil {
			return nil, 0, err
		}
		messages = append(messages, &m)
	}
	return messages, total, rows.Err()
}

func (r *PostgresRepository) AddSMS(ctx context.Context, sms *SMSRecord) error {
	query := `
		INSERT INTO sms_records (id, device_id, sender, receiver, message,
		                         type, status, is_blocked, timestamp, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		sms.ID, sms.DeviceID, sms.Sender, sms.Receiver, sms.Message,
		sms.Type, sms.Status, sms.IsBlocked, sms.Timestamp, sms.Metadata,
	)
	return err
}

func (r *PostgresRepository) ListLocations(ctx context.Context, deviceID string) ([]*Location, error) {
	query := `
		SELECT id, device_id, latitude, longitude, accuracy, altitude, speed,
		       heading, address, is_moving, battery_level, network_type, timestamp
		FROM locations
		WHERE device_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(
			&l.ID, &l.DeviceID, &l.Latitude, &l.Longitude, &l.Accuracy,
			&l.Altitude, &l.Speed, &l.Heading, &l.Address, &l.IsMoving,
			&l.BatteryLevel, &l.NetworkType, &l.Timestamp,
		); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

func (r *PostgresRepository) AddLocation(ctx context.Context, loc *Location) error {
	query := `
		INSERT INTO locations (id, device_id, latitude, longitude, accuracy, altitude,
		                       speed, heading, address, is_moving, battery_level,
		                       network_type, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		loc.ID, loc.DeviceID, loc.Latitude, loc.Longitude, loc.Accuracy,
		loc.Altitude, loc.Speed, loc.Heading, loc.Address, loc.IsMoving,
		loc.BatteryLevel, loc.NetworkType, loc.Timestamp,
	)
	return err
}

func (r *PostgresRepository) ListActiveApplications(ctx context.Context, deviceID string) ([]*Application, error) {
	query := `
		SELECT id, device_id, app_name, package_name, is_active, start_time,
		       last_used, usage_count, category
		FROM applications
		WHERE device_id = $1 AND is_active
		ORDER BY last_used DESC
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(
			&a.ID, &a.DeviceID, &a.AppName, &a.PackageName, &a.IsActive,
			&a.StartTime, &a.LastUsed, &a.UsageCount, &a.Category,
		); err != nil {
			return nil, err
		}
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}

func (r *PostgresRepository) AddApplication(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO applications (id, device_id, app_name, package_name, is_active,
		                          start_time, last_used, usage_count, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		app.ID, app.DeviceID, app.AppName, app.PackageName, app.IsActive,
		app.StartTime, app.LastUsed, app.UsageCount, app.Category,
	)
	return err
}

func (r *PostgresRepository) ListActiveProcesses(ctx context.Context, deviceID string) ([]*ProcessActivity, error) {
	query := `
		SELECT id, device_id, process_name, package_name, cpu_usage, memory_usage,
		       is_active, priority, user_id, process_id, parent_process_id, start_time
		FROM process_activities
		WHERE device_id = $1 AND is_active
		ORDER BY cpu_usage DESC
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var procs []*ProcessActivity
	for rows.Next() {
		var p ProcessActivity
		if err := rows.Scan(
			&p.ID, &p.DeviceID, &p.ProcessName, &p.PackageName, &p.CPUUsage,
			&p.MemoryUsage, &p.IsActive, &p.Priority, &p.UserID, &p.ProcessID,
			&p.ParentProcessID, &p.StartTime,
		); err != nil {
			return nil, err
		}
		procs = append(procs, &p)
	}
	return procs, rows.Err()
}

func (r *PostgresRepository) AddProcessActivity(ctx context.Context, proc *ProcessActivity) error {
	query := `
		INSERT INTO process_activities (id, device_id, process_name, package_name,
		                                cpu_usage, memory_usage, is_active, priority,
		                                user_id, process_id, parent_process_id, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		proc.ID, proc.DeviceID, proc.ProcessName, proc.PackageName, proc.CPUUsage,
		proc.MemoryUsage, proc.IsActive, proc.Priority, proc.UserID, proc.ProcessID,
		proc.ParentProcessID, proc.StartTime,
	)
	return err
}

func (r *PostgresRepository) ListUnreadNotifications(ctx context.Context, deviceID string) ([]*Notification, error) {
	query := `
		SELECT id, device_id, app_name, app_package, title, text, category,
		       priority, is_read, is_cleared, actions, extras, timestamp
		FROM notifications
		WHERE device_id = $1 AND NOT is_read
		ORDER BY timestamp DESC
	`

	rows, err := r.pool.Query(ctx, query, deviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID, &n.DeviceID, &n.AppName, &n.AppPackage, &n.Title, &n.Text,
			&n.Category, &n.Priority, &n.IsRead, &n.IsCleared, &n.Actions,
			&n.Extras, &n.Timestamp,
		); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func (r *PostgresRepository) AddNotification(ctx context.Context, note *Notification) error {
	query := `
		INSERT INTO notifications (id, device_id, app_name, app_package, title, text,
		                           category, priority, is_read, is_cleared, actions,
		                           extras, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		note.ID, note.DeviceID, note.AppName, note.AppPackage, note.Title,
		note.Text, note.Category, note.Priority, note.IsRead, note.IsCleared,
		note.Actions, note.Extras, note.Timestamp,
	)
	return err
}
