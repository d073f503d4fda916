package models

import "time"

// ContractStatus is the lifecycle state of a contract.
type ContractStatus string

const (
	StatusActive    ContractStatus = "active"
	StatusCompleted ContractStatus = "completed"
	StatusPaused    ContractStatus = "paused"
	StatusFailed    ContractStatus = "failed"
)

// Contract is a promise the user sealed with their future self.
type Contract struct {
	ContractID int            `json:"contract_id"`
	UserID     int64          `json:"user_id"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Category   string         `json:"category"`
	Status     ContractStatus `json:"status"`
	Signature  string         `json:"signature"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (c *Contract) IsActive() bool {
	return c.Status == StatusActive
}

// CanTransition reports whether moving from the current status to the target
// is allowed. Active contracts may complete, fail or pause; paused contracts
// may only resume; completed and failed are terminal.
func (c *Contract) CanTransition(to ContractStatus) bool {
	switch c.Status {
	case StatusActive:
		return to == StatusCompleted || to == StatusFailed || to == StatusPaused
	case StatusPaused:
		return to == StatusActive
	default:
		return false
	}
}

// ContractWithConditions is a contract joined with its attached conditions,
// as loaded for a scan tick.
type ContractWithConditions struct {
	Contract
	Conditions []*Condition `json:"conditions"`
}

// ContractWithStats is a contract joined with its reminder response counts.
type ContractWithStats struct {
	Contract
	KeptCount    int        `json:"kept_count"`
	BrokeCount   int        `json:"broke_count"`
	LastReminded *time.Time `json:"last_reminded"`
}
