package models

import "time"

// ReminderResponse is the user's verdict on a fired reminder. An empty
// string means the reminder is still pending.
type ReminderResponse string

const (
	ResponseKept    ReminderResponse = "kept"
	ResponseBroke   ReminderResponse = "broke"
	ResponseSkipped ReminderResponse = "skipped"
)

func ValidResponse(r ReminderResponse) bool {
	return r == ResponseKept || r == ResponseBroke || r == ResponseSkipped
}

// Reminder is one fired trigger in the append-only ledger. The row is
// created by the scheduler when a condition matches and mutated exactly once
// by the user's response; it is immutable afterwards.
type Reminder struct {
	ReminderID     int              `json:"reminder_id"`
	ContractID     int              `json:"contract_id"`
	UserID         int64            `json:"user_id"`
	TriggeredAt    time.Time        `json:"triggered_at"`
	Response       ReminderResponse `json:"response"`
	RespondedAt    *time.Time       `json:"responded_at"`
	ReflectionNote string           `json:"reflection_note"`
	LastMessageID  *int             `json:"last_message_id"` // Last sent message ID for deletion before resend
}

func (r *Reminder) IsPending() bool {
	return r.Response == ""
}

// ReminderWithContract joins a ledger row with its contract title for display.
type ReminderWithContract struct {
	Reminder
	ContractTitle string `json:"contract_title"`
}
