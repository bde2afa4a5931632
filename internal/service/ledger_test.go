package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/service"

	"go.uber.org/zap"
)

func TestLedgerCreate_Defaults(t *testing.T) {
	ledger := newFakeLedger()
	svc := service.NewLedgerService(ledger, zap.NewNop())

	tx, err := svc.Create(context.Background(), &domain.TransactionDraft{
		Description: "Cafetería",
		Amount:      8.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if tx.Type != domain.TypeExpense {
		t.Errorf("expected default type EXPENSE, got %s", tx.Type)
	}
	if tx.Category != domain.CategoryOtros {
		t.Errorf("expected default category OTROS, got %s", tx.Category)
	}
	if tx.ID == "" || tx.Date.IsZero() {
		t.Errorf("expected generated id and date, got %+v", tx)
	}
}

func TestLedgerCreate_Validation(t *testing.T) {
	svc := service.NewLedgerService(newFakeLedger(), zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name  string
		draft domain.TransactionDraft
	}{
		{"missing description", domain.TransactionDraft{Amount: 10}},
		{"zero amount", domain.TransactionDraft{Description: "x", Amount: 0}},
		{"negative amount", domain.TransactionDraft{Description: "x", Amount: -5}},
		{"bad type", domain.TransactionDraft{Description: "x", Amount: 10, Type: "TRANSFER"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tc.draft)
			var verr *domain.ErrValidation
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLedgerUpdate_PreservesLinkage(t *testing.T) {
	ledger := newFakeLedger()
	svc := service.NewLedgerService(ledger, zap.NewNop())
	ctx := context.Background()

	// A materialized row carries the schedule linkage.
	seeded, err := ledger.CreateTransaction(ctx, &domain.Transaction{
		ID: "tx-1", Description: "Alquiler", Amount: 1200,
		Category: domain.CategoryAlquiler, Type: domain.TypeExpense,
		Date:             time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC),
		SourceScheduleID: "sched-1", PeriodKey: "2026-03",
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, seeded.ID, &domain.TransactionDraft{
		Description: "Alquiler marzo",
		Amount:      1250,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Amount != 1250 || updated.Description != "Alquiler marzo" {
		t.Errorf("edit not applied: %+v", updated)
	}
	if updated.SourceScheduleID != "sched-1" || updated.PeriodKey != "2026-03" {
		t.Errorf("edit must not clear the schedule linkage: %+v", updated)
	}
}

func TestLedgerDelete_NotFound(t *testing.T) {
	svc := service.NewLedgerService(newFakeLedger(), zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGoalCreate_DefaultsAndCompletion(t *testing.T) {
	goals := newFakeGoals()
	svc := service.NewGoalService(goals, zap.NewNop())
	ctx := context.Background()

	g, err := svc.Create(ctx, &domain.GoalDraft{Name: "Vacaciones", TargetAmount: 5000})
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != domain.GoalActive || g.Color != "#3B82F6" || g.Icon != "🎯" {
		t.Errorf("unexpected defaults: %+v", g)
	}

	// Reaching the target completes the goal.
	amount := 5000.0
	updated, err := svc.Update(ctx, g.ID, &domain.GoalDraft{CurrentAmount: &amount})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.GoalCompleted {
		t.Errorf("expected COMPLETED, got %s", updated.Status)
	}
}

func TestGoalAddProgress(t *testing.T) {
	goals := newFakeGoals()
	svc := service.NewGoalService(goals, zap.NewNop())
	ctx := context.Background()

	g, err := svc.Create(ctx, &domain.GoalDraft{Name: "Notebook", TargetAmount: 1000})
	if err != nil {
		t.Fatal(err)
	}

	g, err = svc.AddProgress(ctx, g.ID, 600)
	if err != nil {
		t.Fatal(err)
	}
	if g.CurrentAmount != 600 || g.Status != domain.GoalActive {
		t.Errorf("unexpected after deposit: %+v", g)
	}

	// Rolling back below zero clamps at zero.
	g, err = svc.AddProgress(ctx, g.ID, -700)
	if err != nil {
		t.Fatal(err)
	}
	if g.CurrentAmount != 0 {
		t.Errorf("expected clamp at 0, got %f", g.CurrentAmount)
	}

	// Crossing the target completes the goal.
	g, err = svc.AddProgress(ctx, g.ID, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != domain.GoalCompleted {
		t.Errorf("expected COMPLETED, got %s", g.Status)
	}

	var verr *domain.ErrValidation
	if _, err := svc.AddProgress(ctx, g.ID, 0); !errors.As(err, &verr) {
		t.Errorf("expected validation error for zero amount, got %v", err)
	}
}

func TestGoalCreate_Validation(t *testing.T) {
	svc := service.NewGoalService(newFakeGoals(), zap.NewNop())
	ctx := context.Background()

	var verr *domain.ErrValidation
	if _, err := svc.Create(ctx, &domain.GoalDraft{TargetAmount: 100}); !errors.As(err, &verr) {
		t.Errorf("expected validation error for missing name, got %v", err)
	}
	if _, err := svc.Create(ctx, &domain.GoalDraft{Name: "x"}); !errors.As(err, &verr) {
		t.Errorf("expected validation error for zero target, got %v", err)
	}
}

func TestRecurringCreate_Defaults(t *testing.T) {
	svc := newRecurringService(newFakeLedger(), newFakeSchedules())
	ctx := context.Background()

	sc, err := svc.Create(ctx, &domain.RecurringDraft{Description: "Internet", Amount: 30})
	if err != nil {
		t.Fatal(err)
	}
	if sc.Frequency != domain.FrequencyMonthly {
		t.Errorf("expected default frequency MONTHLY, got %s", sc.Frequency)
	}
	if sc.Category != domain.CategoryOtros {
		t.Errorf("expected default category OTROS, got %s", sc.Category)
	}
	if !sc.IsActive {
		t.Error("expected new schedules active")
	}

	var verr *domain.ErrValidation
	if _, err := svc.Create(ctx, &domain.RecurringDraft{Description: "x", Amount: 10, Frequency: "YEARLY"}); !errors.As(err, &verr) {
		t.Errorf("expected validation error for unknown frequency, got %v", err)
	}

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -1, 0)
	if _, err := svc.Create(ctx, &domain.RecurringDraft{
		Description: "x", Amount: 10, StartDate: &start, EndDate: &end,
	}); !errors.As(err, &verr) {
		t.Errorf("expected validation error for endDate before startDate, got %v", err)
	}
}
