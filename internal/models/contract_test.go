package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    ContractStatus
		to      ContractStatus
		allowed bool
	}{
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusFailed, true},
		{StatusActive, StatusPaused, true},
		{StatusActive, StatusActive, false},
		{StatusPaused, StatusActive, true},
		{StatusPaused, StatusCompleted, false},
		{StatusPaused, StatusFailed, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusPaused, false},
		{StatusFailed, StatusActive, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			c := &Contract{Status: tt.from}
			assert.Equal(t, tt.allowed, c.CanTransition(tt.to))
		})
	}
}

func TestReminderPending(t *testing.T) {
	r := &Reminder{}
	assert.True(t, r.IsPending())
	r.Response = ResponseKept
	assert.False(t, r.IsPending())
}

func TestValidResponse(t *testing.T) {
	assert.True(t, ValidResponse(ResponseKept))
	assert.True(t, ValidResponse(ResponseBroke))
	assert.True(t, ValidResponse(ResponseSkipped))
	assert.False(t, ValidResponse(""))
	assert.False(t, ValidResponse("maybe"))
}

func TestIsQuietHours(t *testing.T) {
	s := &UserSettings{Timezone: "UTC", QuietStart: "22:00", QuietEnd: "08:00"}

	cases := []struct {
		name  string
		hour  int
		min   int
		quiet bool
	}{
		{"before window", 21, 59, false},
		{"window start", 22, 0, true},
		{"midnight", 0, 30, true},
		{"just before end", 7, 59, true},
		{"window end", 8, 0, false},
		{"midday", 12, 0, false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			at := time.Date(2024, 3, 5, tt.hour, tt.min, 0, 0, time.UTC)
			assert.Equal(t, tt.quiet, s.IsQuietHours(at))
		})
	}
}

func TestIsQuietHoursSameDayWindow(t *testing.T) {
	s := &UserSettings{Timezone: "UTC", QuietStart: "13:00", QuietEnd: "14:00"}
	assert.True(t, s.IsQuietHours(time.Date(2024, 3, 5, 13, 30, 0, 0, time.UTC)))
	assert.False(t, s.IsQuietHours(time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)))
	assert.False(t, s.IsQuietHours(time.Date(2024, 3, 5, 12, 59, 0, 0, time.UTC)))
}
