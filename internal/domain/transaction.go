// Package domain contains the core entities and value types of the
// finance tracker. No dependencies on infra or transport.
package domain

import "time"

// TransactionType discriminates cash-flow direction. Amounts are always
// positive; the sign is carried by the type, never by the amount.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Expense categories. The column is an open-ended string, these are the
// values the UI knows about.
const (
	CategoryComida          = "COMIDA"
	CategoryAlquiler        = "ALQUILER"
	CategoryTransporte      = "TRANSPORTE"
	CategoryEntretenimiento = "ENTRETENIMIENTO"
	CategoryServicios       = "SERVICIOS"
	CategorySalud           = "SALUD"
	CategoryEducacion       = "EDUCACION"
	CategoryDeportes        = "DEPORTES"
	CategoryOtros           = "OTROS"

	// CategorySalario is the single income category; the salary auto-poster
	// keys its idempotence probe on it.
	CategorySalario = "SALARIO"
)

// Transaction is a single ledger entry. Immutable by default: created by
// user action or by the recurring materializer / salary auto-poster,
// mutated only by an explicit user edit (full replace of mutable fields).
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory,omitempty"`
	Type        TransactionType `json:"type"`
	// Date is the effective date of the entry, not its creation time.
	Date time.Time `json:"date"`

	// SourceScheduleID and PeriodKey link a materialized entry back to the
	// recurring schedule that produced it. Unique per (schedule, period) at
	// the store level; both empty for user-created entries.
	SourceScheduleID string `json:"sourceScheduleId,omitempty"`
	PeriodKey        string `json:"periodKey,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TransactionDraft carries the user-editable fields for create/update.
type TransactionDraft struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Type        TransactionType `json:"type"`
	Date        *time.Time      `json:"date"`
}
