// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
)

// LedgerStore owns the transaction ledger. Append-mostly: rows are created
// by user action or by the materializer/salary auto-poster, updated only
// through explicit edits.
type LedgerStore interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// ListTransactions returns rows with date in [from, to), newest first.
	// txType filters by type when non-empty.
	ListTransactions(ctx context.Context, from, to time.Time, txType domain.TransactionType) ([]domain.Transaction, error)

	// SumByType returns the amount totals per type for [from, to) in a
	// single grouped query.
	SumByType(ctx context.Context, from, to time.Time) (income, expense float64, err error)

	// CategoryTotals returns per-category expense totals for [from, to).
	CategoryTotals(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error)

	// MonthlyTotals returns income/expense totals per calendar month of
	// [from, to) in a single grouped query. Months without rows are absent.
	MonthlyTotals(ctx context.Context, from, to time.Time) ([]domain.MonthlyTotal, error)

	// FindByPeriodKey finds the transaction materialized from a schedule
	// for a period, or nil.
	FindByPeriodKey(ctx context.Context, scheduleID, periodKey string) (*domain.Transaction, error)

	// FindMatch finds a transaction in [from, to) whose description,
	// amount, category and type all match — the legacy value-equality
	// idempotence probe. Returns nil when none matches.
	FindMatch(ctx context.Context, from, to time.Time, description string, amount float64, category string, txType domain.TransactionType) (*domain.Transaction, error)
}

// ScheduleStore owns recurring schedule definitions.
type ScheduleStore interface {
	CreateSchedule(ctx context.Context, s *domain.RecurringSchedule) (*domain.RecurringSchedule, error)
	GetSchedule(ctx context.Context, id string) (*domain.RecurringSchedule, error)
	UpdateSchedule(ctx context.Context, s *domain.RecurringSchedule) (*domain.RecurringSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	ListSchedules(ctx context.Context, activeOnly bool) ([]domain.RecurringSchedule, error)

	// ListDue returns active schedules due for [periodStart, periodEnd)
	// per the dueness invariant.
	ListDue(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.RecurringSchedule, error)

	// StampProcessed records the informational lastProcessed timestamp.
	StampProcessed(ctx context.Context, id string, at time.Time) error
}

// GoalStore owns financial goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error)
	GetGoal(ctx context.Context, id string) (*domain.FinancialGoal, error)
	UpdateGoal(ctx context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error)
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context, status string) ([]domain.FinancialGoal, error)
}

// NotificationStore owns in-app notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

// RateFetcher retrieves the current blue-dollar sell rate. The only
// network dependency of the core; callers must tolerate failure.
type RateFetcher interface {
	SellRate(ctx context.Context) (float64, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
