package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"

	"go.uber.org/zap"
)

const transactionCols = `id, description, amount, category, sub_category, type, date,
	source_schedule_id, period_key, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var (
		tx                            domain.Transaction
		subCategory, scheduleID, pkey sql.NullString
		date, createdAt, updatedAt    string
	)
	err := row.Scan(&tx.ID, &tx.Description, &tx.Amount, &tx.Category, &subCategory,
		&tx.Type, &date, &scheduleID, &pkey, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	tx.SubCategory = subCategory.String
	tx.SourceScheduleID = scheduleID.String
	tx.PeriodKey = pkey.String

	if tx.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if tx.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if tx.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction inserts a ledger entry. A violation of the
// (schedule, period) unique index surfaces as domain.ErrDuplicate, which
// the materializer reports as a per-item skip.
func (s *Store) CreateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Description, tx.Amount, tx.Category, nullStr(tx.SubCategory),
		string(tx.Type), fmtTime(tx.Date), nullStr(tx.SourceScheduleID),
		nullStr(tx.PeriodKey), fmtTime(tx.CreatedAt), fmtTime(tx.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, &domain.ErrDuplicate{Key: tx.SourceScheduleID + "/" + tx.PeriodKey}
		}
		return nil, err
	}

	s.logger.Debug("transaction created",
		zap.String("id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.Float64("amount", tx.Amount),
	)
	return tx, nil
}

// GetTransaction fetches one entry by id.
func (s *Store) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionCols+` FROM transactions WHERE id = ?`, id)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return tx, err
}

// UpdateTransaction replaces the mutable fields of an entry.
func (s *Store) UpdateTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	tx.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount = ?, category = ?, sub_category = ?,
		    type = ?, date = ?, updated_at = ?
		WHERE id = ?`,
		tx.Description, tx.Amount, tx.Category, nullStr(tx.SubCategory),
		string(tx.Type), fmtTime(tx.Date), fmtTime(tx.UpdatedAt), tx.ID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: tx.ID}
	}
	return s.GetTransaction(ctx, tx.ID)
}

// DeleteTransaction removes an entry.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return nil
}

// ListTransactions returns entries with date in [from, to), newest first.
func (s *Store) ListTransactions(ctx context.Context, from, to time.Time, txType domain.TransactionType) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionCols + ` FROM transactions WHERE date >= ? AND date < ?`
	args := []any{fmtTime(from), fmtTime(to)}
	if txType != "" {
		query += ` AND type = ?`
		args = append(args, string(txType))
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	return out, rows.Err()
}

// SumByType totals amounts per type for [from, to) in one grouped query.
func (s *Store) SumByType(ctx context.Context, from, to time.Time) (income, expense float64, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE date >= ? AND date < ?
		GROUP BY type`,
		fmtTime(from), fmtTime(to),
	)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var total float64
		if err := rows.Scan(&typ, &total); err != nil {
			return 0, 0, err
		}
		switch domain.TransactionType(typ) {
		case domain.TypeIncome:
			income = total
		case domain.TypeExpense:
			expense = total
		}
	}
	return income, expense, rows.Err()
}

// CategoryTotals returns per-category expense totals for [from, to),
// largest first.
func (s *Store) CategoryTotals(ctx context.Context, from, to time.Time) ([]domain.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE type = ? AND date >= ? AND date < ?
		GROUP BY category
		ORDER BY total DESC`,
		string(domain.TypeExpense), fmtTime(from), fmtTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CategoryTotal
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// MonthlyTotals returns income/expense totals per calendar month of
// [from, to) in a single grouped query. Months without rows are absent;
// the caller zero-fills.
func (s *Store) MonthlyTotals(ctx context.Context, from, to time.Time) ([]domain.MonthlyTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(strftime('%m', date) AS INTEGER) AS month,
		       COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE date >= ? AND date < ?
		GROUP BY month
		ORDER BY month`,
		fmtTime(from), fmtTime(to),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonthlyTotal
	for rows.Next() {
		var mt domain.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.TotalIncome, &mt.TotalExpense); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

// FindByPeriodKey finds the transaction materialized from a schedule for
// a period, or nil when none exists.
func (s *Store) FindByPeriodKey(ctx context.Context, scheduleID, periodKey string) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE source_schedule_id = ? AND period_key = ?`,
		scheduleID, periodKey)

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return tx, err
}

// FindMatch performs the legacy value-equality idempotence probe: any
// transaction in [from, to) with identical description, amount, category
// and type. Returns nil when none matches.
func (s *Store) FindMatch(ctx context.Context, from, to time.Time, description string, amount float64, category string, txType domain.TransactionType) (*domain.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionCols+` FROM transactions
		 WHERE description = ? AND amount = ? AND category = ? AND type = ?
		   AND date >= ? AND date < ?
		 LIMIT 1`,
		description, amount, category, string(txType), fmtTime(from), fmtTime(to))

	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return tx, err
}
