package service

import (
	"context"
	"errors"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/period"
	"github.com/TomyRioss/misstress/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RecurringService owns schedule definitions and the monthly
// materialization engine.
type RecurringService struct {
	schedules port.ScheduleStore
	ledger    port.LedgerStore
	metrics   *observability.Metrics
	logger    *zap.Logger
	mode      period.Mode
}

// NewRecurringService wires the recurring-expense service. mode decides
// where the month boundary falls for materialization.
func NewRecurringService(
	schedules port.ScheduleStore,
	ledger port.LedgerStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	mode period.Mode,
) *RecurringService {
	return &RecurringService{
		schedules: schedules,
		ledger:    ledger,
		metrics:   metrics,
		logger:    logger,
		mode:      mode,
	}
}

func validateRecurringDraft(d *domain.RecurringDraft) error {
	if d.Description == "" {
		return &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if d.Amount <= 0 {
		return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if d.Frequency != "" && !d.Frequency.Valid() {
		return &domain.ErrValidation{Field: "frequency", Message: "must be MONTHLY, WEEKLY or DAILY"}
	}
	if d.EndDate != nil && d.StartDate != nil && d.EndDate.Before(*d.StartDate) {
		return &domain.ErrValidation{Field: "endDate", Message: "must not precede startDate"}
	}
	return nil
}

// Create registers a new schedule. Frequency defaults to MONTHLY,
// category to OTROS, start date to now; new schedules are active unless
// the draft says otherwise.
func (s *RecurringService) Create(ctx context.Context, draft *domain.RecurringDraft) (*domain.RecurringSchedule, error) {
	ctx, span := tracer.Start(ctx, "RecurringService.Create")
	defer span.End()

	if err := validateRecurringDraft(draft); err != nil {
		return nil, err
	}

	sc := &domain.RecurringSchedule{
		ID:          uuid.NewString(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		SubCategory: draft.SubCategory,
		Frequency:   draft.Frequency,
		StartDate:   time.Now().UTC(),
		EndDate:     draft.EndDate,
		IsActive:    true,
	}
	if sc.Frequency == "" {
		sc.Frequency = domain.FrequencyMonthly
	}
	if sc.Category == "" {
		sc.Category = domain.CategoryOtros
	}
	if draft.StartDate != nil {
		sc.StartDate = draft.StartDate.UTC()
	}
	if draft.IsActive != nil {
		sc.IsActive = *draft.IsActive
	}

	return s.schedules.CreateSchedule(ctx, sc)
}

// Get fetches one schedule.
func (s *RecurringService) Get(ctx context.Context, id string) (*domain.RecurringSchedule, error) {
	ctx, span := tracer.Start(ctx, "RecurringService.Get")
	defer span.End()

	return s.schedules.GetSchedule(ctx, id)
}

// Update applies a draft over an existing schedule.
func (s *RecurringService) Update(ctx context.Context, id string, draft *domain.RecurringDraft) (*domain.RecurringSchedule, error) {
	ctx, span := tracer.Start(ctx, "RecurringService.Update")
	defer span.End()

	if err := validateRecurringDraft(draft); err != nil {
		return nil, err
	}

	sc, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}

	sc.Description = draft.Description
	sc.Amount = draft.Amount
	sc.SubCategory = draft.SubCategory
	sc.EndDate = draft.EndDate
	if draft.Category != "" {
		sc.Category = draft.Category
	}
	if draft.Frequency != "" {
		sc.Frequency = draft.Frequency
	}
	if draft.StartDate != nil {
		sc.StartDate = draft.StartDate.UTC()
	}
	if draft.IsActive != nil {
		sc.IsActive = *draft.IsActive
	}

	return s.schedules.UpdateSchedule(ctx, sc)
}

// Delete removes a schedule definition. Previously materialized
// transactions stay in the ledger.
func (s *RecurringService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "RecurringService.Delete")
	defer span.End()

	return s.schedules.DeleteSchedule(ctx, id)
}

// List returns schedules, optionally only active ones.
func (s *RecurringService) List(ctx context.Context, activeOnly bool) ([]domain.RecurringSchedule, error) {
	ctx, span := tracer.Start(ctx, "RecurringService.List")
	defer span.End()

	return s.schedules.ListSchedules(ctx, activeOnly)
}

// Materialize posts one ledger transaction per due MONTHLY schedule for
// the month containing now, at most once per (schedule, month). Failures
// are isolated per schedule: a broken one lands in SkippedExpenses and
// the rest still process. The pass itself only fails when the due list
// cannot be loaded.
func (s *RecurringService) Materialize(ctx context.Context, now time.Time) (*domain.MaterializeResult, error) {
	ctx, span := tracer.Start(ctx, "RecurringService.Materialize")
	defer span.End()

	year, month := s.mode.YearMonth(now)
	start, end := s.mode.Range(year, month)
	key := period.Key(year, month)
	span.SetAttributes(attribute.String("period.key", key))

	due, err := s.schedules.ListDue(ctx, start, end)
	if err != nil {
		return nil, err
	}

	result := &domain.MaterializeResult{
		ProcessedExpenses: []domain.MaterializedRef{},
		SkippedExpenses:   []domain.SkippedRef{},
	}

	for _, sc := range due {
		if sc.Frequency != domain.FrequencyMonthly {
			continue
		}

		skipReason, txID := s.materializeOne(ctx, &sc, key, start, end)
		if skipReason != "" {
			result.Skipped++
			result.SkippedExpenses = append(result.SkippedExpenses, domain.SkippedRef{
				ScheduleID:  sc.ID,
				Description: sc.Description,
				Reason:      skipReason,
			})
			continue
		}

		result.Processed++
		result.ProcessedExpenses = append(result.ProcessedExpenses, domain.MaterializedRef{
			ScheduleID:    sc.ID,
			Description:   sc.Description,
			TransactionID: txID,
			Amount:        sc.Amount,
		})

		if err := s.schedules.StampProcessed(ctx, sc.ID, now); err != nil {
			s.logger.Warn("could not stamp lastProcessed",
				zap.String("schedule_id", sc.ID), zap.Error(err))
		}
	}

	s.metrics.RecordMaterialization(result.Processed, result.Skipped)
	s.logger.Info("recurring materialization pass",
		zap.String("period", key),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// materializeOne handles a single schedule. Returns a non-empty skip
// reason, or the created transaction id.
func (s *RecurringService) materializeOne(ctx context.Context, sc *domain.RecurringSchedule, key string, start, end time.Time) (skipReason, txID string) {
	// Primary idempotence: the (schedule, period) linkage.
	existing, err := s.ledger.FindByPeriodKey(ctx, sc.ID, key)
	if err != nil {
		s.logger.Error("period key lookup failed",
			zap.String("schedule_id", sc.ID), zap.Error(err))
		return err.Error(), ""
	}
	if existing != nil {
		return domain.SkipAlreadyProcessed, ""
	}

	// Fallback probe for rows that predate the linkage: same description,
	// amount and category already posted this month.
	match, err := s.ledger.FindMatch(ctx, start, end, sc.Description, sc.Amount, sc.Category, domain.TypeExpense)
	if err != nil {
		s.logger.Error("value match lookup failed",
			zap.String("schedule_id", sc.ID), zap.Error(err))
		return err.Error(), ""
	}
	if match != nil {
		return domain.SkipAlreadyProcessed, ""
	}

	tx := &domain.Transaction{
		ID:               uuid.NewString(),
		Description:      sc.Description,
		Amount:           sc.Amount,
		Category:         sc.Category,
		SubCategory:      sc.SubCategory,
		Type:             domain.TypeExpense,
		Date:             start,
		SourceScheduleID: sc.ID,
		PeriodKey:        key,
	}
	if _, err := s.ledger.CreateTransaction(ctx, tx); err != nil {
		// A concurrent pass won the insert race; same outcome as the
		// lookup finding the row.
		var dup *domain.ErrDuplicate
		if errors.As(err, &dup) {
			return domain.SkipAlreadyProcessed, ""
		}
		s.logger.Error("materialization insert failed",
			zap.String("schedule_id", sc.ID), zap.Error(err))
		return err.Error(), ""
	}
	return "", tx.ID
}
