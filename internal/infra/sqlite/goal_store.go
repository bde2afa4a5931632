package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
)

const goalCols = `id, name, description, target_amount, current_amount,
	target_date, status, color, icon, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }) (*domain.FinancialGoal, error) {
	var (
		g                    domain.FinancialGoal
		targetDate           sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.TargetAmount, &g.CurrentAmount,
		&targetDate, &g.Status, &g.Color, &g.Icon, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if g.TargetDate, err = parseTimePtr(targetDate); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGoal inserts a financial goal.
func (s *Store) CreateGoal(ctx context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO financial_goals (`+goalCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		fmtTimePtr(g.TargetDate), g.Status, g.Color, g.Icon,
		fmtTime(g.CreatedAt), fmtTime(g.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGoal fetches one goal by id.
func (s *Store) GetGoal(ctx context.Context, id string) (*domain.FinancialGoal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalCols+` FROM financial_goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: id}
	}
	return g, err
}

// UpdateGoal replaces the mutable fields of a goal.
func (s *Store) UpdateGoal(ctx context.Context, g *domain.FinancialGoal) (*domain.FinancialGoal, error) {
	g.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE financial_goals
		SET name = ?, description = ?, target_amount = ?, current_amount = ?,
		    target_date = ?, status = ?, color = ?, icon = ?, updated_at = ?
		WHERE id = ?`,
		g.Name, g.Description, g.TargetAmount, g.CurrentAmount,
		fmtTimePtr(g.TargetDate), g.Status, g.Color, g.Icon,
		fmtTime(g.UpdatedAt), g.ID,
	)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: g.ID}
	}
	return s.GetGoal(ctx, g.ID)
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM financial_goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "goal", ID: id}
	}
	return nil
}

// ListGoals returns goals newest first, optionally filtered by status.
func (s *Store) ListGoals(ctx context.Context, status string) ([]domain.FinancialGoal, error) {
	query := `SELECT ` + goalCols + ` FROM financial_goals`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.FinancialGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
