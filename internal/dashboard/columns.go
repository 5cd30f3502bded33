package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kidwatch/kidwatch/internal/backend"
	"github.com/kidwatch/kidwatch/internal/table"
)

// Column sets for each telemetry view. Renderers fall back to a placeholder
// when an optional or nested field is absent so one sparse record never
// breaks the whole table.

func DeviceColumns() []table.Column[backend.Device] {
	return []table.Column[backend.Device]{
		{Key: "deviceId", Header: "Device ID", Render: func(d backend.Device) string {
			return table.Unknown(d.DeviceID)
		}},
		{Key: "deviceName", Header: "Name", Render: func(d backend.Device) string {
			return table.Unknown(d.DeviceName)
		}},
		{Key: "status", Header: "Status", Render: func(d backend.Device) string {
			return table.Unknown(d.Status)
		}},
		{Key: "battery", Header: "Battery", Render: func(d backend.Device) string {
			return strconv.Itoa(d.BatteryLevel) + "%"
		}},
	}
}

func ContactColumns() []table.Column[backend.Contact] {
	return []table.Column[backend.Contact]{
		{Key: "name", Header: "Name", Render: func(c backend.Contact) string {
			return table.Unknown(c.Name)
		}},
		{Key: "phones", Header: "Phone Numbers", Render: func(c backend.Contact) string {
			if len(c.PhoneNumbers) == 0 {
				return table.UnknownValue
			}
			return strings.Join(c.PhoneNumbers, ", ")
		}},
		{Key: "emails", Header: "Emails", Render: func(c backend.Contact) string {
			if len(c.EmailAddresses) == 0 {
				return "-"
			}
			return strings.Join(c.EmailAddresses, ", ")
		}},
		{Key: "favorite", Header: "Favorite", Render: func(c backend.Contact) string {
			return table.YesNo(c.IsFavorite)
		}},
	}
}

func CallColumns() []table.Column[backend.CallRecord] {
	return []table.Column[backend.CallRecord]{
		{Key: "contact", Header: "Contact", Render: func(r backend.CallRecord) string {
			if r.Metadata == nil {
				return table.UnknownValue
			}
			return table.Unknown(r.Metadata.ContactName)
		}},
		{Key: "number", Header: "Number", Render: func(r backend.CallRecord) string {
			if r.Type == "incoming" {
				return table.Unknown(r.Caller)
			}
			return table.Unknown(r.Receiver)
		}},
		{Key: "type", Header: "Type", Render: func(r backend.CallRecord) string {
			return table.Unknown(r.Type)
		}},
		{Key: "duration", Header: "Duration", Render: func(r backend.CallRecord) string {
			return table.FormatDuration(r.Duration)
		}},
		{Key: "timestamp", Header: "Time", Render: func(r backend.CallRecord) string {
			return table.FormatTimestamp(r.Timestamp)
		}},
		{Key: "status", Header: "Status", Render: func(r backend.CallRecord) string {
			return table.Unknown(r.Status)
		}},
		{Key: "location", Header: "Location", Render: func(r backend.CallRecord) string {
			if r.Metadata == nil || r.Metadata.Location == nil {
				return "No location data"
			}
			loc := r.Metadata.Location
			if loc.Address != "" {
				return loc.Address
			}
			return fmt.Sprintf("%.5f, %.5f", loc.Latitude, loc.Longitude)
		}},
		{Key: "spam", Header: "Spam", Render: func(r backend.CallRecord) string {
			return table.YesNo(r.Metadata != nil && r.Metadata.IsSpam)
		}},
		{Key: "blocked", Header: "Blocked", Render: func(r backend.CallRecord) string {
			return table.YesNo(r.IsBlocked)
		}},
	}
}

func SMSColumns() []table.Column[backend.SMSRecord] {
	return []table.Column[backend.SMSRecord]{
		{Key: "contact", Header: "Contact", Render: func(r backend.SMSRecord) string {
			if r.Metadata == nil {
				return table.UnknownValue
			}
			return table.Unknown(r.Metadata.ContactName)
		}},
		{Key: "sender", Header: "Sender", Render: func(r backend.SMSRecord) string {
			return table.Unknown(r.Sender)
		}},
		{Key: "message", Header: "Message", Render: func(r backend.SMSRecord) string {
			return truncate(r.Message, 48)
		}},
		{Key: "type", Header: "Type", Render: func(r backend.SMSRecord) string {
			return table.Unknown(r.Type)
		}},
		{Key: "timestamp", Header: "Time", Render: func(r backend.SMSRecord) string {
			return table.FormatTimestamp(r.Timestamp)
		}},
		{Key: "spam", Header: "Spam", Render: func(r backend.SMSRecord) string {
			return table.YesNo(r.Metadata != nil && r.Metadata.IsSpam)
		}},
	}
}

func LocationColumns() []table.Column[backend.Location] {
	return []table.Column[backend.Location]{
		{Key: "coords", Header: "Coordinates", Render: func(l backend.Location) string {
			return fmt.Sprintf("%.5f, %.5f", l.Latitude, l.Longitude)
		}},
		{Key: "address", Header: "Address", Render: func(l backend.Location) string {
			return table.Unknown(l.Address)
		}},
		{Key: "moving", Header: "Moving", Render: func(l backend.Location) string {
			return table.YesNo(l.IsMoving)
		}},
		{Key: "battery", Header: "Battery", Render: func(l backend.Location) string {
			return strconv.Itoa(l.BatteryLevel) + "%"
		}},
		{Key: "network", Header: "Network", Render: func(l backend.Location) string {
			return table.Unknown(l.NetworkType)
		}},
		{Key: "timestamp", Header: "Time", Render: func(l backend.Location) string {
			return table.FormatTimestamp(l.Timestamp)
		}},
	}
}

func ApplicationColumns() []table.Column[backend.Application] {
	return []table.Column[backend.Application]{
		{Key: "app", Header: "App", Render: func(a backend.Application) string {
			return table.Unknown(a.AppName)
		}},
		{Key: "package", Header: "Package", Render: func(a backend.Application) string {
			return table.Unknown(a.PackageName)
		}},
		{Key: "category", Header: "Category", Render: func(a backend.Application) string {
			return table.Unknown(a.Category)
		}},
		{Key: "usage", Header: "Uses", Render: func(a backend.Application) string {
			return strconv.Itoa(a.UsageCount)
		}},
		{Key: "active", Header: "Active", Render: func(a backend.Application) string {
			return table.YesNo(a.IsActive)
		}},
	}
}

func ProcessColumns() []table.Column[backend.ProcessActivity] {
	return []table.Column[backend.ProcessActivity]{
		{Key: "process", Header: "Process", Render: func(p backend.ProcessActivity) string {
			return table.Unknown(p.ProcessName)
		}},
		{Key: "package", Header: "Package", Render: func(p backend.ProcessActivity) string {
			return table.Unknown(p.PackageName)
		}},
		{Key: "pid", Header: "PID", Render: func(p backend.ProcessActivity) string {
			return strconv.Itoa(p.ProcessID)
		}},
		{Key: "cpu", Header: "CPU", Render: func(p backend.ProcessActivity) string {
			return fmt.Sprintf("%.1f%%", p.CPUUsage)
		}},
		{Key: "memory", Header: "Memory", Render: func(p backend.ProcessActivity) string {
			return fmt.Sprintf("%.1f MB", p.MemoryUsage)
		}},
		{Key: "priority", Header: "Priority", Render: func(p backend.ProcessActivity) string {
			return table.Unknown(p.Priority)
		}},
	}
}

func NotificationColumns() []table.Column[backend.Notification] {
	return []table.Column[backend.Notification]{
		{Key: "app", Header: "App", Render: func(n backend.Notification) string {
			return table.Unknown(n.AppName)
		}},
		{Key: "title", Header: "Title", Render: func(n backend.Notification) string {
			return table.Unknown(n.Title)
		}},
		{Key: "text", Header: "Text", Render: func(n backend.Notification) string {
			return truncate(n.Text, 60)
		}},
		{Key: "priority", Header: "Priority", Render: func(n backend.Notification) string {
			return table.Unknown(n.Priority)
		}},
		{Key: "timestamp", Header: "Time", Render: func(n backend.Notification) string {
			return table.FormatTimestamp(n.Timestamp)
		}},
	}
}

func truncate(s string, max int) string {
	if s == "" {
		return table.UnknownValue
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
