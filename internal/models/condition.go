package models

// ConditionType discriminates the encoding of a condition's Value field.
type ConditionType string

const (
	ConditionTime      ConditionType = "time"          // Value is "HH:MM"
	ConditionDay       ConditionType = "day"           // Value is comma-joined weekday names
	ConditionLocation  ConditionType = "location_tag"  // Value is a free-text tag
	ConditionSituation ConditionType = "situation_tag" // Value is a free-text tag
)

// Condition is a declarative trigger rule attached to a contract. Rows are
// deleted together with their contract. Active is cleared when a one-shot
// condition has fired.
type Condition struct {
	ConditionID int           `json:"condition_id"`
	ContractID  int           `json:"contract_id"`
	Type        ConditionType `json:"type"`
	Value       string        `json:"value"`
	IsRecurring bool          `json:"is_recurring"`
	Active      bool          `json:"active"`
}

// IsTag reports whether the condition is a manual check-in tag rather than a
// clock-driven rule.
func (c *Condition) IsTag() bool {
	return c.Type == ConditionLocation || c.Type == ConditionSituation
}
