package utils

import (
	"fmt"
	"time"
)

// EntryTimeLayout is how history dates are shown to users
const EntryTimeLayout = "2 Jan 2006, 15:04:05"

var displayLoc = time.Local

// SetDisplayLocation sets the zone dates are shown in. An empty name keeps local time.
func SetDisplayLocation(name string) error {
	if name == "" {
		displayLoc = time.Local
		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		// In production docker, ensure tzdata is installed
		return fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	displayLoc = loc
	return nil
}

// GetLocation returns the display *time.Location
func GetLocation() *time.Location {
	return displayLoc
}

// Now returns the current time in the display location
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// FormatEntryTime renders t in the display location, or "-" for the zero time
func FormatEntryTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(GetLocation()).Format(EntryTimeLayout)
}
