package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
)

// CreateNotification inserts an in-app notification.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	n.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, type, category, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Message, n.Type, nullStr(n.Category), n.IsRead, fmtTime(n.CreatedAt),
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns the latest notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, message, type, category, is_read, created_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			category  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &category, &n.IsRead, &createdAt); err != nil {
			return nil, err
		}
		n.Category = category.String
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	return nil
}

// DeleteNotification removes a notification.
func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &domain.ErrNotFound{Resource: "notification", ID: id}
	}
	return nil
}
