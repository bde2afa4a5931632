package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
)

const scheduleCols = `id, description, amount, category, sub_category, frequency,
	start_date, end_date, is_active, last_processed, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*domain.RecurringSchedule, error) {
	var (
		sc                              domain.RecurringSchedule
		subCategory, endDate, lastProc  sql.NullString
		startDate, createdAt, updatedAt string
		frequency                       string
	)
	err := row.Scan(&sc.ID, &sc.Description, &sc.Amount, &sc.Category, &subCategory,
		&frequency, &startDate, &endDate, &sc.IsActive, &lastProc, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	sc.SubCategory = subCategory.String
	sc.Frequency = domain.Frequency(frequency)

	if sc.StartDate, err = parseTime(startDate); err != nil {
		return nil, err
	}
	if sc.EndDate, err = parseTimePtr(endDate); err != nil {
		return nil, err
	}
	if sc.LastProcessed, err = parseTimePtr(lastProc); err != nil {
		return nil, err
	}
	if sc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

// CreateSchedule inserts a recurring schedule definition.
func (s *Store) CreateSchedule(ctx context.Context, sc *domain.RecurringSchedule) (*domain.RecurringSchedule, error) {
	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_schedules (`+scheduleCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Description, sc.Amount, sc.Category, nullStr(sc.SubCategory),
		string(sc.Frequency), fmtTime(sc.StartDate), fmtTimePtr(sc.EndDate),
		sc.IsActive, fmtTimePtr(sc.LastProcessed), fmtTime(sc.CreatedAt), fmtTime(sc.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// GetSchedule fetches one schedule by id.
func (s *Store) GetSchedule(ctx context.Context, id string) (*domain.RecurringSchedule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scheduleCols+` FROM recurring_schedules WHERE id = ?`, id)

	sc, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "recurring schedule", ID: id}
	}
	return sc, err
}

// UpdateSchedule replaces the mutable fields of a schedule.
func (s *Store) UpdateSchedule(ctx context.Context, sc *domain.RecurringSchedule) (*domain.RecurringSchedule, error) {
	sc.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_schedules
		SET description = ?, amount = ?, category = ?, sub_category = ?,
		    frequency = ?, start_date = ?, end_date = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		sc.Description, sc.Amount, sc.Category, nullStr(sc.SubCategory),
		string(sc.Frequency), fmtTime(sc.StartDate), fmtTimePtr(sc.EndDate),
		sc.IsActive, fmtTime(sc.UpdatedAt), sc.ID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "recurring schedule", ID: sc.ID}
	}
	return s.GetSchedule(ctx, sc.ID)
}

// DeleteSchedule removes a schedule definition. Materialized transactions
// are ledger history and stay untouched.
func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "recurring schedule", ID: id}
	}
	return nil
}

// ListSchedules returns schedules newest first, optionally active only.
func (s *Store) ListSchedules(ctx context.Context, activeOnly bool) ([]domain.RecurringSchedule, error) {
	query := `SELECT ` + scheduleCols + ` FROM recurring_schedules`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecurringSchedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

// ListDue returns active schedules due for [periodStart, periodEnd):
// started on or before the period end and not ended before the period
// start.
func (s *Store) ListDue(ctx context.Context, periodStart, periodEnd time.Time) ([]domain.RecurringSchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+scheduleCols+` FROM recurring_schedules
		WHERE is_active = 1
		  AND start_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY created_at`,
		fmtTime(periodEnd), fmtTime(periodStart),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RecurringSchedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, rows.Err()
}

// StampProcessed records the informational lastProcessed timestamp.
func (s *Store) StampProcessed(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE recurring_schedules SET last_processed = ?, updated_at = ? WHERE id = ?`,
		fmtTime(at), fmtTime(time.Now().UTC()), id,
	)
	return err
}
