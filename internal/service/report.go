package service

import (
	"context"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/period"
	"github.com/TomyRioss/misstress/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReportService computes the aggregation reports. Balance reads anchor
// months at local midnight and trigger the side effects (recurring
// materialization, salary posting); the other reports use naive UTC
// month boundaries, matching how each endpoint has always behaved.
type ReportService struct {
	ledger    port.LedgerStore
	goals     port.GoalStore
	recurring *RecurringService
	salary    *SalaryService
	metrics   *observability.Metrics
	logger    *zap.Logger

	balanceMode period.Mode
	reportMode  period.Mode
}

// NewReportService wires the report service.
func NewReportService(
	ledger port.LedgerStore,
	goals port.GoalStore,
	recurring *RecurringService,
	salary *SalaryService,
	metrics *observability.Metrics,
	logger *zap.Logger,
	balanceMode period.Mode,
) *ReportService {
	return &ReportService{
		ledger:      ledger,
		goals:       goals,
		recurring:   recurring,
		salary:      salary,
		metrics:     metrics,
		logger:      logger,
		balanceMode: balanceMode,
		reportMode:  period.UTCMidnight,
	}
}

// GetBalance returns the income/expense/balance triple for the month
// containing now. Reading the balance is the app's heartbeat, so it
// first runs the recurring materializer and the salary poster; both are
// best effort and never fail the read.
func (s *ReportService) GetBalance(ctx context.Context, now time.Time) (*domain.BalanceSummary, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetBalance")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("balance", time.Since(start))
	}()

	if _, err := s.recurring.Materialize(ctx, now); err != nil {
		s.logger.Error("materialization before balance failed", zap.Error(err))
	}
	s.salary.EnsureSalary(ctx, now)

	from, to := s.balanceMode.RangeFor(now)
	income, expense, err := s.ledger.SumByType(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.BalanceSummary{
		TotalIncome:   income,
		TotalExpenses: expense,
		Balance:       income - expense,
	}, nil
}

// GetCategorySummary returns per-category expense totals for one month,
// largest first.
func (s *ReportService) GetCategorySummary(ctx context.Context, year int, month time.Month) ([]domain.CategoryTotal, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetCategorySummary")
	defer span.End()
	span.SetAttributes(attribute.String("period.key", period.Key(year, month)))

	from, to := s.reportMode.Range(year, month)
	return s.ledger.CategoryTotals(ctx, from, to)
}

// GetMonthlyTotals returns income/expense totals for every month of the
// year, zero-filled to exactly 12 rows.
func (s *ReportService) GetMonthlyTotals(ctx context.Context, year int) ([]domain.MonthlyTotal, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetMonthlyTotals")
	defer span.End()

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	rows, err := s.ledger.MonthlyTotals(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return ZeroFillMonthly(rows), nil
}

// GetComparison compares per-category expense totals of one month against
// any other (callers default the compare month to the previous one). Both
// months load concurrently.
func (s *ReportService) GetComparison(ctx context.Context, year int, month time.Month, cmpYear int, cmpMonth time.Month) (*domain.Comparison, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetComparison")
	defer span.End()

	var current, previous []domain.CategoryTotal
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from, to := s.reportMode.Range(year, month)
		var err error
		current, err = s.ledger.CategoryTotals(gCtx, from, to)
		return err
	})
	g.Go(func() error {
		from, to := s.reportMode.Range(cmpYear, cmpMonth)
		var err error
		previous, err = s.ledger.CategoryTotals(gCtx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prevByCat := make(map[string]float64, len(previous))
	for _, ct := range previous {
		prevByCat[ct.Category] = ct.Total
	}

	// Categories present this month first (already largest-first), then
	// the ones that only existed last month.
	categories := []domain.CategoryComparison{}
	seen := make(map[string]bool, len(current))
	var curTotal, prevTotal float64

	for _, ct := range current {
		seen[ct.Category] = true
		categories = append(categories, compareCategory(ct.Category, ct.Total, prevByCat[ct.Category]))
		curTotal += ct.Total
	}
	for _, ct := range previous {
		prevTotal += ct.Total
		if !seen[ct.Category] {
			categories = append(categories, compareCategory(ct.Category, 0, ct.Total))
		}
	}

	diff, pct := ComparisonChange(curTotal, prevTotal)
	return &domain.Comparison{
		Current:  domain.MonthTotalRef{Year: year, Month: int(month), Total: curTotal},
		Previous: domain.MonthTotalRef{Year: cmpYear, Month: int(cmpMonth), Total: prevTotal},
		Totals: domain.ComparisonTotals{
			Difference:       diff,
			PercentageChange: pct,
			Trend:            TrendOf(curTotal, prevTotal),
			IsIncrease:       curTotal > prevTotal,
		},
		Categories: categories,
	}, nil
}

func compareCategory(name string, current, previous float64) domain.CategoryComparison {
	diff, pct := ComparisonChange(current, previous)
	return domain.CategoryComparison{
		Category:         name,
		Current:          current,
		Previous:         previous,
		Difference:       diff,
		PercentageChange: pct,
		Trend:            TrendOf(current, previous),
		IsIncrease:       current > previous,
	}
}

// GetComparisonTransactions returns the expense transactions of two
// months side by side, with a signed summary.
func (s *ReportService) GetComparisonTransactions(ctx context.Context, year int, month time.Month, cmpYear int, cmpMonth time.Month) (*domain.ComparisonTransactions, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetComparisonTransactions")
	defer span.End()

	var current, previous []domain.Transaction
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from, to := s.reportMode.Range(year, month)
		var err error
		current, err = s.ledger.ListTransactions(gCtx, from, to, domain.TypeExpense)
		return err
	})
	g.Go(func() error {
		from, to := s.reportMode.Range(cmpYear, cmpMonth)
		var err error
		previous, err = s.ledger.ListTransactions(gCtx, from, to, domain.TypeExpense)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curTotal := SumAmounts(current)
	prevTotal := SumAmounts(previous)

	// Signed here, unlike the category comparison: the frontend renders
	// the sign itself.
	diff := curTotal - prevTotal
	var pct float64
	switch {
	case prevTotal > 0:
		pct = (diff / prevTotal) * 100
	case curTotal > 0:
		pct = 100
	}

	return &domain.ComparisonTransactions{
		Current: domain.MonthTransactions{
			Year: year, Month: int(month),
			Transactions: current, Total: curTotal, Count: len(current),
		},
		Previous: domain.MonthTransactions{
			Year: cmpYear, Month: int(cmpMonth),
			Transactions: previous, Total: prevTotal, Count: len(previous),
		},
		Summary: domain.ComparisonSummary{
			CurrentTotal:     curTotal,
			PreviousTotal:    prevTotal,
			Difference:       diff,
			PercentageChange: pct,
			CurrentCount:     len(current),
			PreviousCount:    len(previous),
		},
	}, nil
}

// GetSmartAnalysis builds the heuristic report for the month containing
// now: figures, trend, predictions and rule-based insights.
func (s *ReportService) GetSmartAnalysis(ctx context.Context, now time.Time) (*domain.SmartAnalysis, error) {
	ctx, span := tracer.Start(ctx, "ReportService.GetSmartAnalysis")
	defer span.End()

	year, month := s.reportMode.YearMonth(now)
	prevYear, prevMonth := period.Previous(year, month)

	var (
		txs         []domain.Transaction
		prevExpense float64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from, to := s.reportMode.Range(year, month)
		var err error
		txs, err = s.ledger.ListTransactions(gCtx, from, to, "")
		return err
	})
	g.Go(func() error {
		from, to := s.reportMode.Range(prevYear, prevMonth)
		_, expense, err := s.ledger.SumByType(gCtx, from, to)
		prevExpense = expense
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var income, expenses float64
	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeIncome:
			income += tx.Amount
		case domain.TypeExpense:
			expenses += tx.Amount
		}
	}
	balance := income - expenses

	breakdown := GroupByCategory(txs)
	totals := make([]domain.CategoryTotal, 0, len(breakdown))
	for cat, stat := range breakdown {
		totals = append(totals, domain.CategoryTotal{Category: cat, Total: stat.Total})
	}
	sortCategoryTotals(totals)

	trend := MonthOverMonthTrend(expenses, prevExpense)
	savingsRate := SavingsRate(balance, income)
	top := TopCategoryOf(totals, expenses)

	return &domain.SmartAnalysis{
		CurrentMonth: domain.MonthFigures{
			Income:   income,
			Expenses: expenses,
			Balance:  balance,
		},
		MonthlyTrend:      trend,
		SavingsRate:       savingsRate,
		TopCategory:       top,
		ExpensiveDay:      ExpensiveDay(txs),
		PredictedExpenses: PredictExpenses(expenses, trend),
		PredictedSavings:  PredictSavings(balance),
		RecommendedGoal:   RecommendGoal(expenses),
		Insights:          BuildInsights(trend, savingsRate, top),
		CategoryBreakdown: breakdown,
	}, nil
}

func sortCategoryTotals(totals []domain.CategoryTotal) {
	for i := 0; i < len(totals); i++ {
		for j := i + 1; j < len(totals); j++ {
			if totals[j].Total > totals[i].Total {
				totals[i], totals[j] = totals[j], totals[i]
			}
		}
	}
}

// Export assembles the JSON export: summary, raw transactions, goals and
// per-category stats for [from, to).
func (s *ReportService) Export(ctx context.Context, from, to time.Time) (*domain.ExportReport, error) {
	ctx, span := tracer.Start(ctx, "ReportService.Export")
	defer span.End()

	var (
		txs   []domain.Transaction
		goals []domain.FinancialGoal
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.ledger.ListTransactions(gCtx, from, to, "")
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.ListGoals(gCtx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var income, expenses float64
	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeIncome:
			income += tx.Amount
		case domain.TypeExpense:
			expenses += tx.Amount
		}
	}

	return &domain.ExportReport{
		Type: "json",
		DateRange: domain.ExportRange{
			StartDate: from.Format("2006-01-02"),
			EndDate:   to.Format("2006-01-02"),
		},
		Summary: domain.BalanceSummary{
			TotalIncome:   income,
			TotalExpenses: expenses,
			Balance:       income - expenses,
		},
		Expenses: txs,
		Goals:    goals,
		Category: GroupByCategory(txs),
	}, nil
}
