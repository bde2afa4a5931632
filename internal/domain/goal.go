package domain

import "time"

// Goal statuses.
const (
	GoalActive    = "ACTIVE"
	GoalCompleted = "COMPLETED"
	GoalPaused    = "PAUSED"
)

// FinancialGoal is a simple savings target. CurrentAmount is a running
// total maintained by explicit adjustments; it has no ledger linkage.
type FinancialGoal struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount float64    `json:"currentAmount"`
	TargetDate    *time.Time `json:"targetDate,omitempty"`
	Status        string     `json:"status"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// GoalDraft carries the user-editable goal fields.
type GoalDraft struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount *float64   `json:"currentAmount"`
	TargetDate    *time.Time `json:"targetDate"`
	Status        string     `json:"status"`
	Color         string     `json:"color"`
	Icon          string     `json:"icon"`
}
