package table

import (
	"fmt"
	"time"
)

// UnknownValue is the display fallback for absent fields.
const UnknownValue = "Unknown"

// Fallback returns s, or fallback when s is empty.
func Fallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Unknown returns s, or "Unknown" when s is empty.
func Unknown(s string) string {
	return Fallback(s, UnknownValue)
}

// FormatDuration renders a duration in seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatTimestamp renders a timestamp for display; the zero time reads as
// "Unknown".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return UnknownValue
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// YesNo renders a boolean flag.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
