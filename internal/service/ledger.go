package service

import (
	"context"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/ledger")

// LedgerService handles user-facing transaction CRUD. The materializer
// and salary poster write to the same store but bypass this validation.
type LedgerService struct {
	ledger port.LedgerStore
	logger *zap.Logger
}

// NewLedgerService wires the transaction CRUD service.
func NewLedgerService(ledger port.LedgerStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledger: ledger, logger: logger}
}

func validateDraft(d *domain.TransactionDraft) error {
	if d.Description == "" {
		return &domain.ErrValidation{Field: "description", Message: "required"}
	}
	if d.Amount <= 0 {
		return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if d.Type != "" && !d.Type.Valid() {
		return &domain.ErrValidation{Field: "type", Message: "must be INCOME or EXPENSE"}
	}
	return nil
}

// Create inserts a new ledger entry from a draft. Type defaults to
// EXPENSE and category to OTROS; the date defaults to now.
func (s *LedgerService) Create(ctx context.Context, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.Create")
	defer span.End()

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Category:    draft.Category,
		SubCategory: draft.SubCategory,
		Type:        draft.Type,
		Date:        time.Now().UTC(),
	}
	if tx.Type == "" {
		tx.Type = domain.TypeExpense
	}
	if tx.Category == "" {
		tx.Category = domain.CategoryOtros
	}
	if draft.Date != nil {
		tx.Date = draft.Date.UTC()
	}

	return s.ledger.CreateTransaction(ctx, tx)
}

// Get fetches one entry.
func (s *LedgerService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.Get")
	defer span.End()

	return s.ledger.GetTransaction(ctx, id)
}

// Update applies a draft over an existing entry (full replace of the
// user-editable fields). The schedule linkage is never touched here.
func (s *LedgerService) Update(ctx context.Context, id string, draft *domain.TransactionDraft) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.Update")
	defer span.End()

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	tx, err := s.ledger.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	tx.Description = draft.Description
	tx.Amount = draft.Amount
	tx.SubCategory = draft.SubCategory
	if draft.Category != "" {
		tx.Category = draft.Category
	}
	if draft.Type != "" {
		tx.Type = draft.Type
	}
	if draft.Date != nil {
		tx.Date = draft.Date.UTC()
	}

	return s.ledger.UpdateTransaction(ctx, tx)
}

// Delete removes an entry.
func (s *LedgerService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "LedgerService.Delete")
	defer span.End()

	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", zap.String("id", id))
	return nil
}

// List returns entries with date in [from, to), optionally filtered by
// type, newest first.
func (s *LedgerService) List(ctx context.Context, from, to time.Time, txType domain.TransactionType) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.List")
	defer span.End()

	if txType != "" && !txType.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "must be INCOME or EXPENSE"}
	}
	return s.ledger.ListTransactions(ctx, from, to, txType)
}
