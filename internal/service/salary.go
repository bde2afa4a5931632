package service

import (
	"context"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/period"
	"github.com/TomyRioss/misstress/internal/port"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	salaryDescription = "Sueldo mensual"
	rateCacheKey      = "rates:blue"
)

// SalaryService posts the monthly salary income automatically, converting
// a fixed USD base with the blue-dollar sell rate.
type SalaryService struct {
	ledger  port.LedgerStore
	rates   port.RateFetcher
	cache   port.Cache[float64]
	metrics *observability.Metrics
	logger  *zap.Logger
	baseUSD float64
	mode    period.Mode
}

// NewSalaryService wires the salary auto-poster.
func NewSalaryService(
	ledger port.LedgerStore,
	rates port.RateFetcher,
	cache port.Cache[float64],
	metrics *observability.Metrics,
	logger *zap.Logger,
	baseUSD float64,
	mode period.Mode,
) *SalaryService {
	return &SalaryService{
		ledger:  ledger,
		rates:   rates,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		baseUSD: baseUSD,
		mode:    mode,
	}
}

// EnsureSalary posts this month's salary if it is not in the ledger yet.
// Best effort by contract: a rate-service outage or insert failure is
// logged and swallowed so the balance read it piggybacks on never fails.
func (s *SalaryService) EnsureSalary(ctx context.Context, now time.Time) {
	ctx, span := tracer.Start(ctx, "SalaryService.EnsureSalary")
	defer span.End()

	start, end := s.mode.RangeFor(now)

	incomes, err := s.ledger.ListTransactions(ctx, start, end, domain.TypeIncome)
	if err != nil {
		s.logger.Error("salary probe failed", zap.Error(err))
		return
	}
	for _, tx := range incomes {
		if tx.Category == domain.CategorySalario {
			return
		}
	}

	rate, ok := s.sellRate(ctx)
	if !ok {
		return
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		Description: salaryDescription,
		Amount:      s.baseUSD * rate,
		Category:    domain.CategorySalario,
		Type:        domain.TypeIncome,
		Date:        start,
	}
	if _, err := s.ledger.CreateTransaction(ctx, tx); err != nil {
		s.logger.Error("salary insert failed", zap.Error(err))
		return
	}

	s.logger.Info("salary posted",
		zap.String("period", s.mode.KeyFor(now)),
		zap.Float64("rate", rate),
		zap.Float64("amount", tx.Amount),
	)
}

// sellRate returns the cached blue-dollar sell rate, fetching on a miss.
func (s *SalaryService) sellRate(ctx context.Context) (float64, bool) {
	if rate, ok := s.cache.Get(rateCacheKey); ok {
		s.metrics.IncrCacheHit("rates")
		return rate, true
	}
	s.metrics.IncrCacheMiss("rates")

	rate, err := s.rates.SellRate(ctx)
	if err != nil {
		s.logger.Warn("blue rate fetch failed, skipping salary", zap.Error(err))
		s.metrics.IncrExternalError("rates")
		return 0, false
	}
	s.cache.Set(rateCacheKey, rate)
	return rate, true
}
