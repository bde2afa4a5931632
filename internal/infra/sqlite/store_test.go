package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/sqlite"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "misstress_test.db")
	s, err := sqlite.Open(path, zap.NewNop())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newExpense(description string, amount float64, category string, date time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Type:        domain.TypeExpense,
		Date:        date,
	}
}

func TestTransaction_CreateGetUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := newExpense("Supermercado", 120.5, domain.CategoryComida,
		time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	if _, err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetTransaction(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Supermercado" || got.Amount != 120.5 {
		t.Errorf("unexpected row: %+v", got)
	}
	if got.Type != domain.TypeExpense {
		t.Errorf("expected EXPENSE, got %s", got.Type)
	}

	got.Amount = 130
	got.Category = domain.CategoryOtros
	updated, err := s.UpdateTransaction(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 130 || updated.Category != domain.CategoryOtros {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := s.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = s.GetTransaction(ctx, tx.ID)
	var notFound *domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// Timestamps with fractional seconds must stay inside their month: the
// stored strings are compared lexically in SQL, so "03:00:00.5" has to
// sort after "03:00:00" and before the next month start.
func TestListTransactions_FractionalSecondStaysInMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	monthStart := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	nextStart := time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)

	onBoundary := newExpense("Alquiler", 1200, domain.CategoryAlquiler, monthStart)
	halfSecondIn := newExpense("Nafta", 80, domain.CategoryTransporte,
		monthStart.Add(500*time.Millisecond))
	if _, err := s.CreateTransaction(ctx, onBoundary); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTransaction(ctx, halfSecondIn); err != nil {
		t.Fatalf("create: %v", err)
	}

	rows, err := s.ListTransactions(ctx, monthStart, nextStart, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both rows inside [monthStart, nextStart), got %d", len(rows))
	}
	// Newest first: the fractional-second row is later than the boundary one.
	if rows[0].ID != halfSecondIn.ID {
		t.Errorf("expected fractional-second row to sort after the boundary row")
	}
	if !rows[0].Date.Equal(monthStart.Add(500 * time.Millisecond)) {
		t.Errorf("fractional seconds lost on round-trip: %v", rows[0].Date)
	}

	// And it must not leak into the month before the boundary.
	prevStart := time.Date(2026, time.February, 1, 3, 0, 0, 0, time.UTC)
	prevRows, err := s.ListTransactions(ctx, prevStart, monthStart, "")
	if err != nil {
		t.Fatalf("list previous month: %v", err)
	}
	if len(prevRows) != 0 {
		t.Errorf("expected no rows before the boundary, got %d", len(prevRows))
	}
}

func TestListTransactions_RangeAndTypeFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	feb := time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

	s.CreateTransaction(ctx, newExpense("Alquiler feb", 1200, domain.CategoryAlquiler, feb))
	s.CreateTransaction(ctx, newExpense("Nafta", 80, domain.CategoryTransporte, mar))
	s.CreateTransaction(ctx, &domain.Transaction{
		ID: uuid.NewString(), Description: "Sueldo mensual", Amount: 900000,
		Category: domain.CategorySalario, Type: domain.TypeIncome, Date: mar,
	})

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	all, err := s.ListTransactions(ctx, from, to, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 March rows, got %d", len(all))
	}

	expenses, err := s.ListTransactions(ctx, from, to, domain.TypeExpense)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Description != "Nafta" {
		t.Errorf("unexpected expense filter result: %+v", expenses)
	}
}

func TestSumByType_PartitionsWithoutLoss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.CreateTransaction(ctx, newExpense("a", 100, domain.CategoryComida, date))
	s.CreateTransaction(ctx, newExpense("b", 50, domain.CategoryTransporte, date))
	s.CreateTransaction(ctx, &domain.Transaction{
		ID: uuid.NewString(), Amount: 900, Category: domain.CategorySalario,
		Type: domain.TypeIncome, Date: date,
	})

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	income, expense, err := s.SumByType(ctx, from, to)
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if income != 900 {
		t.Errorf("expected income 900, got %f", income)
	}
	if expense != 150 {
		t.Errorf("expected expense 150, got %f", expense)
	}

	// Partitioned sums must equal the unfiltered total.
	all, _ := s.ListTransactions(ctx, from, to, "")
	var total float64
	for _, tx := range all {
		total += tx.Amount
	}
	if income+expense != total {
		t.Errorf("partition mismatch: %f + %f != %f", income, expense, total)
	}
}

func TestCategoryTotals_ExpensesOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	s.CreateTransaction(ctx, newExpense("a", 100, domain.CategoryComida, date))
	s.CreateTransaction(ctx, newExpense("b", 60, domain.CategoryComida, date))
	s.CreateTransaction(ctx, newExpense("c", 50, domain.CategoryTransporte, date))
	s.CreateTransaction(ctx, &domain.Transaction{
		ID: uuid.NewString(), Amount: 900, Category: domain.CategorySalario,
		Type: domain.TypeIncome, Date: date,
	})

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	totals, err := s.CategoryTotals(ctx, from, to)
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}
	if totals[0].Category != domain.CategoryComida || totals[0].Total != 160 {
		t.Errorf("expected COMIDA 160 first, got %+v", totals[0])
	}
	if totals[1].Category != domain.CategoryTransporte || totals[1].Total != 50 {
		t.Errorf("expected TRANSPORTE 50 second, got %+v", totals[1])
	}
}

func TestMonthlyTotals_GroupedByMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.CreateTransaction(ctx, newExpense("jan", 100, domain.CategoryComida,
		time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)))
	s.CreateTransaction(ctx, newExpense("mar", 200, domain.CategoryComida,
		time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)))
	s.CreateTransaction(ctx, &domain.Transaction{
		ID: uuid.NewString(), Amount: 900, Category: domain.CategorySalario,
		Type: domain.TypeIncome,
		Date: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	})

	from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	totals, err := s.MonthlyTotals(ctx, from, to)
	if err != nil {
		t.Fatalf("monthly totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 month rows, got %d", len(totals))
	}
	if totals[0].Month != 1 || totals[0].TotalExpense != 100 {
		t.Errorf("unexpected January row: %+v", totals[0])
	}
	if totals[1].Month != 3 || totals[1].TotalExpense != 200 || totals[1].TotalIncome != 900 {
		t.Errorf("unexpected March row: %+v", totals[1])
	}
}

func TestPeriodKeyLinkage_UniquePerSchedulePeriod(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	scheduleID := uuid.NewString()
	date := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)

	first := newExpense("Alquiler", 1200, domain.CategoryAlquiler, date)
	first.SourceScheduleID = scheduleID
	first.PeriodKey = "2026-03"
	if _, err := s.CreateTransaction(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}

	found, err := s.FindByPeriodKey(ctx, scheduleID, "2026-03")
	if err != nil {
		t.Fatalf("find by period key: %v", err)
	}
	if found == nil || found.ID != first.ID {
		t.Fatalf("expected to find materialized row, got %+v", found)
	}

	// Second insert for the same (schedule, period) must fail as duplicate.
	second := newExpense("Alquiler", 1200, domain.CategoryAlquiler, date)
	second.SourceScheduleID = scheduleID
	second.PeriodKey = "2026-03"
	_, err = s.CreateTransaction(ctx, second)
	var dup *domain.ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Unlinked rows are not constrained.
	plain := newExpense("Alquiler", 1200, domain.CategoryAlquiler, date)
	if _, err := s.CreateTransaction(ctx, plain); err != nil {
		t.Errorf("expected unlinked insert to pass, got %v", err)
	}
}

func TestFindMatch_ValueEquality(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	s.CreateTransaction(ctx, newExpense("Netflix", 15.99, domain.CategoryEntretenimiento, date))

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	found, err := s.FindMatch(ctx, from, to, "Netflix", 15.99, domain.CategoryEntretenimiento, domain.TypeExpense)
	if err != nil {
		t.Fatalf("find match: %v", err)
	}
	if found == nil {
		t.Fatal("expected a match")
	}

	none, err := s.FindMatch(ctx, from, to, "Netflix", 19.99, domain.CategoryEntretenimiento, domain.TypeExpense)
	if err != nil {
		t.Fatalf("find mismatch: %v", err)
	}
	if none != nil {
		t.Errorf("expected no match on different amount, got %+v", none)
	}
}

func TestListDue_DuenessInvariant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	endFeb := time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)
	sc := &domain.RecurringSchedule{
		ID:          uuid.NewString(),
		Description: "Gimnasio",
		Amount:      45,
		Category:    domain.CategoryDeportes,
		Frequency:   domain.FrequencyMonthly,
		StartDate:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     &endFeb,
		IsActive:    true,
	}
	if _, err := s.CreateSchedule(ctx, sc); err != nil {
		t.Fatalf("create schedule: %v", err)
	}

	// Due for February: the period overlaps the end date.
	febStart := time.Date(2026, time.February, 1, 3, 0, 0, 0, time.UTC)
	marStart := time.Date(2026, time.March, 1, 3, 0, 0, 0, time.UTC)
	due, err := s.ListDue(ctx, febStart, marStart)
	if err != nil {
		t.Fatalf("list due feb: %v", err)
	}
	if len(due) != 1 {
		t.Errorf("expected schedule due for February, got %d", len(due))
	}

	// Not due for March: ended before the period start.
	aprStart := time.Date(2026, time.April, 1, 3, 0, 0, 0, time.UTC)
	due, err = s.ListDue(ctx, marStart, aprStart)
	if err != nil {
		t.Fatalf("list due mar: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("expected schedule not due for March, got %d", len(due))
	}

	// Inactive schedules are never due.
	sc.IsActive = false
	if _, err := s.UpdateSchedule(ctx, sc); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	due, _ = s.ListDue(ctx, febStart, marStart)
	if len(due) != 0 {
		t.Errorf("expected inactive schedule excluded, got %d", len(due))
	}
}

func TestSchedule_StampProcessed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc := &domain.RecurringSchedule{
		ID: uuid.NewString(), Description: "Internet", Amount: 30,
		Category: domain.CategoryServicios, Frequency: domain.FrequencyMonthly,
		StartDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	s.CreateSchedule(ctx, sc)

	at := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	if err := s.StampProcessed(ctx, sc.ID, at); err != nil {
		t.Fatalf("stamp: %v", err)
	}

	got, err := s.GetSchedule(ctx, sc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastProcessed == nil || !got.LastProcessed.Equal(at) {
		t.Errorf("expected lastProcessed %v, got %v", at, got.LastProcessed)
	}
}

func TestGoalsAndNotifications_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := &domain.FinancialGoal{
		ID: uuid.NewString(), Name: "Vacaciones", TargetAmount: 5000,
		Status: domain.GoalActive, Color: "#3B82F6", Icon: "🎯",
	}
	if _, err := s.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	g.CurrentAmount = 1500
	if _, err := s.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update goal: %v", err)
	}
	active, err := s.ListGoals(ctx, domain.GoalActive)
	if err != nil || len(active) != 1 {
		t.Fatalf("expected 1 active goal, got %d (err %v)", len(active), err)
	}
	if active[0].CurrentAmount != 1500 {
		t.Errorf("expected currentAmount 1500, got %f", active[0].CurrentAmount)
	}

	n := &domain.Notification{
		ID: uuid.NewString(), Title: "Presupuesto", Message: "Gastos altos este mes",
		Type: domain.NotificationWarning,
	}
	if _, err := s.CreateNotification(ctx, n); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	if err := s.MarkNotificationRead(ctx, n.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := s.ListNotifications(ctx, 20)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 notification, got %d (err %v)", len(list), err)
	}
	if !list[0].IsRead {
		t.Error("expected notification marked read")
	}
}
