// Package telemetry is the server-side domain for device telemetry:
// devices and the per-device collections the dashboard renders.
package telemetry

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrDeviceNotFound = errors.New("device not found")
)

// DefaultPageSize is the page size for paginated collections (calls, sms).
const DefaultPageSize = 20

// DeviceSettings are the parental controls configured for a device.
type DeviceSettings struct {
	ScreenTimeLimit int      `json:"screenTimeLimit"`
	GeofenceRadius  int      `json:"geofenceRadius"`
	AllowedApps     []string `json:"allowedApps"`
	BlockedWebsites []string `json:"blockedWebsites"`
}

// Device is a monitored endpoint. DeviceID is the stable external
// identifier used in API paths; ID is the internal record id.
type Device struct {
	ID           string         `json:"_id"`
	DeviceID     string         `json:"deviceId"`
	DeviceName   string         `json:"deviceName"`
	DeviceType   string         `json:"deviceType,omitempty"`
	OSVersion    string         `json:"osVersion,omitempty"`
	Manufacturer string         `json:"manufacturer,omitempty"`
	Status       string         `json:"status,omitempty"`
	BatteryLevel int            `json:"batteryLevel,omitempty"`
	ChildID      string         `json:"childId,omitempty"`
	LastSeen     time.Time      `json:"lastConnected,omitempty"`
	Settings     DeviceSettings `json:"settings"`
}

// Contact is one synced address-book entry.
type Contact struct {
	ID             string    `json:"_id"`
	DeviceID       string    `json:"deviceId"`
	Name           string    `json:"name"`
	PhoneNumbers   []string  `json:"phoneNumbers"`
	EmailAddresses []string  `json:"emailAddresses"`
	IsFavorite     bool      `json:"isFavorite"`
	IsDeleted      bool      `json:"isDeleted"`
	Groups         []string  `json:"groups"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// CallLocation is where a call was made, when known.
type CallLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// CallMetadata is derived enrichment for a call record.
type CallMetadata struct {
	Location    *CallLocation `json:"location,omitempty"`
	ContactName string        `json:"contactName"`
	IsSpam      bool          `json:"isSpam"`
	Category    string        `json:"category"`
}

// CallRecord is one call log entry.
type CallRecord struct {
	ID        string        `json:"_id"`
	DeviceID  string        `json:"deviceId"`
	Caller    string        `json:"caller"`
	Receiver  string        `json:"receiver"`
	Duration  int           `json:"duration"`
	Type      string        `json:"type"`
	Status    string        `json:"status"`
	IsBlocked bool          `json:"isBlocked"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  *CallMetadata `json:"metadata,omitempty"`
}

// SMSMetadata is derived enrichment for an SMS record.
type SMSMetadata struct {
	ContactName string `json:"contactName"`
	IsSpam      bool   `json:"isSpam"`
	Category    string `json:"category"`
}

// SMSRecord is one SMS log entry.
type SMSRecord struct {
	ID        string       `json:"_id"`
	DeviceID  string       `json:"deviceId"`
	Sender    string       `json:"sender"`
	Receiver  string       `json:"receiver"`
	Message   string       `json:"message"`
	Type      string       `json:"type"`
	Status    string       `json:"status"`
	IsBlocked bool         `json:"isBlocked"`
	Timestamp time.Time    `json:"timestamp"`
	Metadata  *SMSMetadata `json:"metadata,omitempty"`
}

// Location is one GPS fix.
type Location struct {
	ID           string    `json:"_id"`
	DeviceID     string    `json:"deviceId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     float64   `json:"accuracy"`
	Altitude     float64   `json:"altitude"`
	Speed        float64   `json:"speed"`
	Heading      float64   `json:"heading"`
	Address      string    `json:"address"`
	IsMoving     bool      `json:"isMoving"`
	BatteryLevel int       `json:"batteryLevel"`
	NetworkType  string    `json:"networkType"`
	Timestamp    time.Time `json:"timestamp"`
}

// Application is one installed app with usage stats.
type Application struct {
	ID          string    `json:"_id"`
	DeviceID    string    `json:"deviceId"`
	AppName     string    `json:"appName"`
	PackageName string    `json:"packageName"`
	IsActive    bool      `json:"isActive"`
	StartTime   time.Time `json:"startTime"`
	LastUsed    time.Time `json:"lastUsed"`
	UsageCount  int       `json:"usageCount"`
	Category    string    `json:"category"`
}

// ProcessActivity is one running process snapshot.
type ProcessActivity struct {
	ID              string    `json:"_id"`
	DeviceID        string    `json:"deviceId"`
	ProcessName     string    `json:"processName"`
	PackageName     string    `json:"packageName"`
	CPUUsage        float64   `json:"cpuUsage"`
	MemoryUsage     float64   `json:"memoryUsage"`
	IsActive        bool      `json:"isActive"`
	Priority        string    `json:"priority"`
	UserID          int       `json:"userId"`
	ProcessID       int       `json:"processId"`
	ParentProcessID int       `json:"parentProcessId"`
	StartTime       time.Time `json:"startTime"`
}

// Notification is one captured device notification.
type Notification struct {
	ID         string            `json:"_id"`
	DeviceID   string            `json:"deviceId"`
	AppName    string            `json:"appName"`
	AppPackage string            `json:"appPackageName"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Category   string            `json:"category"`
	Priority   string            `json:"priority"`
	IsRead     bool              `json:"isRead"`
	IsCleared  bool              `json:"isCleared"`
	Actions    []string          `json:"actions,omitempty"`
	Extras     map[string]string `json:"extras,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Pagination describes one page of a paginated collection. Page is 1-based
// and, when Pages >= 1, always within [1, Pages].
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// PagedCalls is the /calls envelope.
type PagedCalls struct {
	CallRecords []CallRecord `json:"callRecords"`
	Pagination  Pagination   `json:"pagination"`
}

// PagedSMS is the /sms envelope.
type PagedSMS struct {
	SMSRecords []SMSRecord `json:"smsRecords"`
	Pagination Pagination  `json:"pagination"`
}
