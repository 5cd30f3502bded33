package backend

import (
	"fmt"
	"time"
)

// Validatable payloads get a structural check at the decode boundary so a
// malformed backend body surfaces as ErrBadResponse instead of a zero-value
// record three layers up.
type Validatable interface {
	Validate() error
}

// Device is a monitored endpoint. DeviceID is the stable external
// identifier; ID is the backend's internal one.
type Device struct {
	ID           string `json:"_id"`
	DeviceID     string `json:"deviceId"`
	DeviceName   string `json:"deviceName"`
	DeviceType   string `json:"deviceType,omitempty"`
	OSVersion    string `json:"osVersion,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Status       string `json:"status,omitempty"`
	BatteryLevel int    `json:"batteryLevel,omitempty"`
	LastSeen     string `json:"lastConnected,omitempty"`
}

func (d Device) Validate() error {
	if d.DeviceID == "" {
		return fmt.Errorf("device missing deviceId")
	}
	return nil
}

// DeviceList is the /devices payload.
type DeviceList []Device

func (l DeviceList) Validate() error {
	for i, d := range l {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
	}
	return nil
}

// Contact is one address-book entry synced from a device.
type Contact struct {
	ID             string   `json:"_id"`
	DeviceID       string   `json:"deviceId"`
	Name           string   `json:"name"`
	PhoneNumbers   []string `json:"phoneNumbers"`
	EmailAddresses []string `json:"emailAddresses"`
	IsFavorite     bool     `json:"isFavorite"`
	IsDeleted      bool     `json:"isDeleted"`
	Groups         []string `json:"groups"`
	LastUpdated    string   `json:"lastUpdated"`
}

// CallLocation is the optional location attached to a call record.
type CallLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// CallMetadata carries enrichment the backend derives for a call.
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

// SMSMetadata carries enrichment the backend derives for a message.
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

// Location is one GPS fix reported by a device.
type Location struct {
	ID           string    `json:"_id"`
	DeviceID     string    `json:"deviceId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     float64   `json:"accuracy"`
	Speed        float64   `json:"speed"`
	Address      string    `json:"address"`
	IsMoving     bool      `json:"isMoving"`
	BatteryLevel int       `json:"batteryLevel"`
	NetworkType  string    `json:"networkType"`
	Timestamp    time.Time `json:"timestamp"`
}

// Application is one installed app with usage stats.
type Application struct {
	ID          string `json:"_id"`
	DeviceID    string `json:"deviceId"`
	AppName     string `json:"appName"`
	PackageName string `json:"packageName"`
	IsActive    bool   `json:"isActive"`
	LastUsed    string `json:"lastUsed"`
	UsageCount  int    `json:"usageCount"`
	Category    string `json:"category"`
}

// ProcessActivity is one running process snapshot.
type ProcessActivity struct {
	ID          string  `json:"_id"`
	DeviceID    string  `json:"deviceId"`
	ProcessName string  `json:"processName"`
	PackageName string  `json:"packageName"`
	CPUUsage    float64 `json:"cpuUsage"`
	MemoryUsage float64 `json:"memoryUsage"`
	IsActive    bool    `json:"isActive"`
	Priority    string  `json:"priority"`
	ProcessID   int     `json:"processId"`
	StartTime   string  `json:"startTime"`
}

// Notification is one captured device notification.
type Notification struct {
	ID          string    `json:"_id"`
	DeviceID    string    `json:"deviceId"`
	AppName     string    `json:"appName"`
	AppPackage  string    `json:"appPackageName"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	IsRead      bool      `json:"isRead"`
	Timestamp   time.Time `json:"timestamp"`
}

// Pagination describes a paginated collection. Page is 1-based.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func (p Pagination) Validate() error {
	if p.Pages >= 1 && (p.Page < 1 || p.Page > p.Pages) {
		return fmt.Errorf("page %d out of range [1,%d]", p.Page, p.Pages)
	}
	return nil
}

// CallsResponse is the paginated /calls envelope.
type CallsResponse struct {
	CallRecords []CallRecord `json:"callRecords"`
	Pagination  Pagination   `json:"pagination"`
}

func (r CallsResponse) Validate() error {
	if err := r.Pagination.Validate(); err != nil {
		return fmt.Errorf("calls pagination: %w", err)
	}
	return nil
}

// SMSResponse is the paginated /sms envelope.
type SMSResponse struct {
	SMSRecords []SMSRecord `json:"smsRecords"`
	Pagination Pagination  `json:"pagination"`
}

func (r SMSResponse) Validate() error {
	if err := r.Pagination.Validate(); err != nil {
		return fmt.Errorf("sms pagination: %w", err)
	}
	return nil
}
