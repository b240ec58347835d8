package domain

import "context"

// NotificationRepository defines the data-access contract for notifications.
type NotificationRepository interface {
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID int64) ([]Notification, error)

	// GetByID returns (nil, nil) when no notification is found.
	GetByID(ctx context.Context, id int64) (*Notification, error)

	Create(ctx context.Context, userID int64, kind, message string) (*Notification, error)

	// MarkRead returns ErrNotFound when the notification does not exist.
	MarkRead(ctx context.Context, id int64) (*Notification, error)

	// MarkAllRead marks every unread notification of the user as read and
	// returns how many rows changed.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// Delete returns ErrNotFound when the notification does not exist.
	Delete(ctx context.Context, id int64) error
}
