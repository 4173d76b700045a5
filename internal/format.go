package internal

import (
	"fmt"
	"time"
)

// DisplayTimeFormat is the standard time format used across the application
const DisplayTimeFormat = "2006-01-02 15:04:05"

// FormatLocal formats the given time in the standard display format (local time)
func FormatLocal(t time.Time) string {
	return t.Local().Format(DisplayTimeFormat)
}

// FormatSize renders a byte count in a human-readable unit, e.g. "1.2 MB".
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}
