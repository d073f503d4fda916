package models

import (
	"strconv"
	"strings"
	"time"
)

// UserSettings holds per-user notification preferences. These replace the
// ambient preference blob the web client kept in local storage; everything is
// an explicit row passed into the scheduler.
type UserSettings struct {
	UserID           int64     `json:"user_id"`
	Timezone         string    `json:"timezone"`
	QuietStart       string    `json:"quiet_start"` // HH:MM format
	QuietEnd         string    `json:"quiet_end"`   // HH:MM format
	RemindersEnabled bool      `json:"reminders_enabled"`
	StreakAlerts     bool      `json:"streak_alerts"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewDefaultUserSettings creates a new UserSettings with default values
func NewDefaultUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:           userID,
		Timezone:         "UTC",
		QuietStart:       "22:00",
		QuietEnd:         "08:00",
		RemindersEnabled: true,
		StreakAlerts:     true,
		UpdatedAt:        time.Now(),
	}
}

// Location resolves the user's timezone, falling back to UTC on a bad name.
func (s *UserSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsQuietHours checks if the given time is within quiet hours
func (s *UserSettings) IsQuietHours(t time.Time) bool {
	localTime := t.In(s.Location())
	currentMinutes := localTime.Hour()*60 + localTime.Minute()

	startHour, startMin := parseTimeString(s.QuietStart)
	endHour, endMin := parseTimeString(s.QuietEnd)
	startMinutes := startHour*60 + startMin
	endMinutes := endHour*60 + endMin

	if startMinutes == endMinutes {
		return false
	}
	if startMinutes < endMinutes {
		return currentMinutes >= startMinutes && currentMinutes < endMinutes
	}
	// Quiet window crosses midnight, e.g. 22:00-08:00
	return currentMinutes >= startMinutes || currentMinutes < endMinutes
}

// parseTimeString parses "HH:MM" and returns (hour, minute), zeroes on error
func parseTimeString(s string) (int, int) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0
	}
	hour, err1 := strconv.Atoi(parts[0])
	min, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return hour, min
}
