package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ecocycle/rewards-api/internal/model"
)

// NotificationRepository is the append-only per-user message store.
type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateTx appends a notification for one user.
func (r *NotificationRepository) CreateTx(ctx context.Context, tx *sql.Tx, userID int64, notifType, message string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message, type) VALUES (?, ?, ?)`,
		userID, message, notifType,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// NotifyAdminsTx appends the same notification for every admin and returns how many were written.
func (r *NotificationRepository) NotifyAdminsTx(ctx context.Context, tx *sql.Tx, notifType, message string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO notifications (user_id, message, type)
			SELECT id, ?, ? FROM users WHERE is_admin = ?`,
		message, notifType, true,
	)
	if err != nil {
		return 0, fmt.Errorf("insert admin notifications: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// ListUnread returns up to limit unread notifications for a user, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, message, type, is_read, created_at FROM notifications
			WHERE user_id = ? AND is_read = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?`,
		userID, false, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
