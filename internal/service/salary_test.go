package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/cache"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/period"
	"github.com/TomyRioss/misstress/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newSalaryService(ledger *fakeLedger, rates *fakeRates) *service.SalaryService {
	return service.NewSalaryService(
		ledger, rates,
		cache.New[float64](5*time.Minute),
		observability.NewMetrics(), zap.NewNop(),
		900, period.LocalMidnight(-3),
	)
}

func findSalary(t *testing.T, ledger *fakeLedger, from, to time.Time) []domain.Transaction {
	t.Helper()
	incomes, err := ledger.ListTransactions(context.Background(), from, to, domain.TypeIncome)
	if err != nil {
		t.Fatal(err)
	}
	var out []domain.Transaction
	for _, tx := range incomes {
		if tx.Category == domain.CategorySalario {
			out = append(out, tx)
		}
	}
	return out
}

func TestEnsureSalary_PostsOnce(t *testing.T) {
	ledger := newFakeLedger()
	rates := &fakeRates{rate: 1450.5}
	svc := newSalaryService(ledger, rates)
	ctx := context.Background()

	now := time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC)
	svc.EnsureSalary(ctx, now)

	from := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)

	salaries := findSalary(t, ledger, from, to)
	if len(salaries) != 1 {
		t.Fatalf("expected 1 salary row, got %d", len(salaries))
	}
	tx := salaries[0]
	if tx.Description != "Sueldo mensual" {
		t.Errorf("unexpected description %q", tx.Description)
	}
	if tx.Amount != 900*1450.5 {
		t.Errorf("expected amount %f, got %f", 900*1450.5, tx.Amount)
	}
	// Dated at the month start, not at call time.
	if !tx.Date.Equal(from) {
		t.Errorf("expected date %v, got %v", from, tx.Date)
	}

	// A second call the same month must not duplicate.
	svc.EnsureSalary(ctx, now)
	if salaries = findSalary(t, ledger, from, to); len(salaries) != 1 {
		t.Errorf("expected salary to stay unique, got %d rows", len(salaries))
	}
}

func TestEnsureSalary_RespectsExistingManualSalary(t *testing.T) {
	ledger := newFakeLedger()
	rates := &fakeRates{rate: 1450.5}
	svc := newSalaryService(ledger, rates)
	ctx := context.Background()

	// The user already recorded a salary by hand this month.
	ledger.CreateTransaction(ctx, &domain.Transaction{
		ID:          uuid.NewString(),
		Description: "Sueldo adelantado",
		Amount:      1000000,
		Category:    domain.CategorySalario,
		Type:        domain.TypeIncome,
		Date:        time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	})

	svc.EnsureSalary(ctx, time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC))

	if rates.calls != 0 {
		t.Errorf("expected no rate fetch when salary exists, got %d calls", rates.calls)
	}
	from := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)
	if salaries := findSalary(t, ledger, from, to); len(salaries) != 1 {
		t.Errorf("expected only the manual salary, got %d rows", len(salaries))
	}
}

func TestEnsureSalary_RateFailureIsSilent(t *testing.T) {
	ledger := newFakeLedger()
	rates := &fakeRates{err: errors.New("dolarapi unreachable")}
	svc := newSalaryService(ledger, rates)
	ctx := context.Background()

	// Must not panic or post anything; the caller never sees the error.
	svc.EnsureSalary(ctx, time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC))

	from := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)
	if salaries := findSalary(t, ledger, from, to); len(salaries) != 0 {
		t.Errorf("expected no salary on rate failure, got %d rows", len(salaries))
	}
}

func TestEnsureSalary_CachesRate(t *testing.T) {
	ledger := newFakeLedger()
	rates := &fakeRates{rate: 1450.5}
	svc := newSalaryService(ledger, rates)
	ctx := context.Background()

	// Two different months: the second post should reuse the cached rate.
	svc.EnsureSalary(ctx, time.Date(2026, time.March, 15, 18, 0, 0, 0, time.UTC))
	svc.EnsureSalary(ctx, time.Date(2026, time.April, 15, 18, 0, 0, 0, time.UTC))

	if rates.calls != 1 {
		t.Errorf("expected a single upstream fetch, got %d", rates.calls)
	}
}
