package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/social-service/internal/core/domain"
)

const notificationColumns = `id, user_id, type, message, read, created_at`

// PgxNotificationRepository implements domain.NotificationRepository using pgx.
type PgxNotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new PgxNotificationRepository.
func NewNotificationRepository(db DBTX) *PgxNotificationRepository {
	return &PgxNotificationRepository{db: db}
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser returns the user's notifications newest first.
func (r *PgxNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Notification, error) {
		n, err := scanNotification(row)
		if err != nil {
			return domain.Notification{}, err
		}
		return *n, nil
	})
}

// GetByID returns (nil, nil) when no notification is found.
func (r *PgxNotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return n, err
}

// Create inserts an unread notification.
func (r *PgxNotificationRepository) Create(ctx context.Context, userID int64, kind, message string) (*domain.Notification, error) {
	query := `INSERT INTO notifications (user_id, type, message) VALUES ($1, $2, $3) RETURNING ` + notificationColumns
	return scanNotification(r.db.QueryRow(ctx, query, userID, kind, message))
}

// MarkRead flags one notification as read.
func (r *PgxNotificationRepository) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	query := `UPDATE notifications SET read = true WHERE id = $1 RETURNING ` + notificationColumns
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return n, err
}

// MarkAllRead flags every unread notification of the user as read.
func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Delete removes the notification.
func (r *PgxNotificationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
