package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
)

// In-memory fakes shared by the service tests. They implement the store
// ports with the same contracts the sqlite store honors.

type fakeLedger struct {
	mu  sync.Mutex
	txs map[string]*domain.Transaction

	// failOnDescription forces CreateTransaction to fail for matching
	// rows, to test per-item error isolation.
	failOnDescription string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{txs: make(map[string]*domain.Transaction)}
}

func (f *fakeLedger) CreateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOnDescription != "" && tx.Description == f.failOnDescription {
		return nil, errors.New("forced insert failure")
	}
	if tx.SourceScheduleID != "" {
		for _, existing := range f.txs {
			if existing.SourceScheduleID == tx.SourceScheduleID && existing.PeriodKey == tx.PeriodKey {
				return nil, &domain.ErrDuplicate{Key: tx.SourceScheduleID + "/" + tx.PeriodKey}
			}
		}
	}
	cp := *tx
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	f.txs[tx.ID] = &cp
	return &cp, nil
}

func (f *fakeLedger) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tx, ok := f.txs[id]; ok {
		cp := *tx
		return &cp, nil
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
}

func (f *fakeLedger) UpdateTransaction(_ context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.txs[tx.ID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
	}
	cp := *tx
	cp.UpdatedAt = time.Now().UTC()
	f.txs[tx.ID] = &cp
	return &cp, nil
}

func (f *fakeLedger) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.txs[id]; !ok {
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	delete(f.txs, id)
	return nil
}

func (f *fakeLedger) inRange(tx *domain.Transaction, from, to time.Time) bool {
	return !tx.Date.Before(from) && tx.Date.Before(to)
}

func (f *fakeLedger) ListTransactions(_ context.Context, from, to time.Time, txType domain.TransactionType) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range f.txs {
		if !f.inRange(tx, from, to) {
			continue
		}
		if txType != "" && tx.Type != txType {
			continue
		}
		out = append(out, *tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (f *fakeLedger) SumByType(_ context.Context, from, to time.Time) (income, expense float64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if !f.inRange(tx, from, to) {
			continue
		}
		switch tx.Type {
		case domain.TypeIncome:
			income += tx.Amount
		case domain.TypeExpense:
			expense += tx.Amount
		}
	}
	return income, expense, nil
}

func (f *fakeLedger) CategoryTotals(_ context.Context, from, to time.Time) ([]domain.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byCat := make(map[string]float64)
	for _, tx := range f.txs {
		if tx.Type == domain.TypeExpense && f.inRange(tx, from, to) {
			byCat[tx.Category] += tx.Amount
		}
	}
	var out []domain.CategoryTotal
	for cat, total := range byCat {
		out = append(out, domain.CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (f *fakeLedger) MonthlyTotals(_ context.Context, from, to time.Time) ([]domain.MonthlyTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	byMonth := make(map[int]*domain.MonthlyTotal)
	for _, tx := range f.txs {
		if !f.inRange(tx, from, to) {
			continue
		}
		m := int(tx.Date.UTC().Month())
		row, ok := byMonth[m]
		if !ok {
			row = &domain.MonthlyTotal{Month: m}
			byMonth[m] = row
		}
		switch tx.Type {
		case domain.TypeIncome:
			row.TotalIncome += tx.Amount
		case domain.TypeExpense:
			row.TotalExpense += tx.Amount
		}
	}
	var out []domain.MonthlyTotal
	for _, row := range byMonth {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (f *fakeLedger) FindByPeriodKey(_ context.Context, scheduleID, periodKey string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if tx.SourceScheduleID == scheduleID && tx.PeriodKey == periodKey {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) FindMatch(_ context.Context, from, to time.Time, description string, amount float64, category string, txType domain.TransactionType) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if f.inRange(tx, from, to) && tx.Description == description &&
			tx.Amount == amount && tx.Category == category && tx.Type == txType {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeSchedules struct {
	mu        sync.Mutex
	schedules map[string]*domain.RecurringSchedule
}

func newFakeSchedules() *fakeSchedules {
	return &fakeSchedules{schedules: make(map[string]*domain.RecurringSchedule)}
}

func (f *fakeSchedules) CreateSchedule(_ context.Context, s *domain.RecurringSchedule) (*domain.RecurringSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.schedules[s.ID] = &cp
	return &cp, nil
}

func (f *fakeSchedules) GetSchedule(_ context.Context, id string) (*domain.RecurringSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedules[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, &domain.ErrNotFound{Resource: "recurring schedule", ID: id}
}

func (f *fakeSchedules) UpdateSchedule(_ context.Context, s *domain.RecurringSchedule) (*domain.RecurringSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[s.ID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "recurring schedule", ID: s.ID}
	}
	cp := *s
	f.schedules[s.ID] = &cp
	return &cp, nil
}

func (f *fakeSchedules) DeleteSchedule(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return &domain.ErrNotFound{Resource: "recurring schedule", ID: id}
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeSchedules) ListSchedules(_ context.Context, activeOnly bool) ([]domain.RecurringSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringSchedule
	for _, s := range f.schedules {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSchedules) ListDue(_ context.Context, periodStart, periodEnd time.Time) ([]domain.RecurringSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RecurringSchedule
	for _, s := range f.schedules {
		if s.DueFor(periodStart, periodEnd) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSchedules) StampProcessed(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.schedules[id]; ok {
		s.LastProcessed = &at
	}
	return nil
}

type fakeRates struct {
	mu    sync.Mutex
	rate  float64
	err   error
	calls int
}

func (f *fakeRates) SellRate(_ context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rate, f.err
}

type fakeGoals struct {
	mu    sync.Mutex
	goals map[string]*domain.FinancialGoal
}

func newFakeGoals() *fakeGoals {
	return &fakeGoals{goals: make(map[string]*domain.FinancialGoal)}
}

func (f *fakeGoals) CreateGoal(_ context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *g
	f.goals[g.ID] = &cp
	return &cp, nil
}

func (f *fakeGoals) GetGoal(_ context.Context, id string) (*domain.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.goals[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, &domain.ErrNotFound{Resource: "goal", ID: id}
}

func (f *fakeGoals) UpdateGoal(_ context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[g.ID]; !ok {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: g.ID}
	}
	cp := *g
	f.goals[g.ID] = &cp
	return &cp, nil
}

func (f *fakeGoals) DeleteGoal(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[id]; !ok {
		return &domain.ErrNotFound{Resource: "goal", ID: id}
	}
	delete(f.goals, id)
	return nil
}

func (f *fakeGoals) ListGoals(_ context.Context, status string) ([]domain.FinancialGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.FinancialGoal
	for _, g := range f.goals {
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}
