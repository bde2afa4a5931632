package domain

import "time"

// Frequency of a recurring schedule. Only MONTHLY schedules are
// materialized by the engine; the other values are stored and listed but
// never auto-posted.
type Frequency string

const (
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyDaily   Frequency = "DAILY"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyWeekly || f == FrequencyDaily
}

// RecurringSchedule is a recurring obligation definition. The materializer
// converts due schedules into ledger transactions, at most once per
// calendar month each.
type RecurringSchedule struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory,omitempty"`
	Frequency   Frequency `json:"frequency"`
	StartDate   time.Time `json:"startDate"`
	// EndDate is an inclusive upper bound; nil means open-ended.
	EndDate  *time.Time `json:"endDate,omitempty"`
	IsActive bool       `json:"isActive"`
	// LastProcessed is informational only. Idempotence is enforced by the
	// (schedule, period) linkage on the transaction, not by this stamp.
	LastProcessed *time.Time `json:"lastProcessed,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DueFor reports whether the schedule is due for the period
// [periodStart, periodEnd): active, started on or before the period end,
// and not ended before the period start.
func (s *RecurringSchedule) DueFor(periodStart, periodEnd time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.StartDate.After(periodEnd) {
		return false
	}
	if s.EndDate != nil && s.EndDate.Before(periodStart) {
		return false
	}
	return true
}

// RecurringDraft carries the user-editable fields for create/update.
type RecurringDraft struct {
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Category    string     `json:"category"`
	SubCategory string     `json:"subCategory"`
	Frequency   Frequency  `json:"frequency"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    *bool      `json:"isActive"`
}

// MaterializeResult reports the outcome of one materialization pass.
// Per-schedule failures land in Skipped; they never abort the batch.
type MaterializeResult struct {
	Processed         int               `json:"processed"`
	Skipped           int               `json:"skipped"`
	ProcessedExpenses []MaterializedRef `json:"processedExpenses"`
	SkippedExpenses   []SkippedRef      `json:"skippedExpenses"`
}

// MaterializedRef identifies a transaction created from a schedule.
type MaterializedRef struct {
	ScheduleID    string  `json:"id"`
	Description   string  `json:"description"`
	TransactionID string  `json:"expenseId"`
	Amount        float64 `json:"amount"`
}

// SkippedRef explains why a due schedule was not materialized.
type SkippedRef struct {
	ScheduleID  string `json:"id"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// SkipAlreadyProcessed is the reason recorded when the idempotence check
// finds an existing entry for the period.
const SkipAlreadyProcessed = "Already processed for this month"
