package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"github.com/duynhne/social-service/internal/logger"
	"go.opentelemetry.io/otel/attribute"
)

// Notifier records activity for a recipient. Delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID int64, kind, message string)
}

// NotificationService manages a user's notifications.
type NotificationService struct {
	notifications domain.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications domain.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Notify stores a notification for recipientID. Self-activity is skipped and
// storage failures are logged, never returned.
func (s *NotificationService) Notify(ctx context.Context, recipientID, actorID int64, kind, message string) {
	if recipientID == actorID {
		return
	}
	ctx, span := startSpan(ctx, "notification.notify",
		attribute.Int64("notification.user_id", recipientID),
		attribute.String("notification.type", kind),
	)
	defer span.End()

	if _, err := s.notifications.Create(ctx, recipientID, kind, message); err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).
			Int64("recipient_id", recipientID).
			Str("type", kind).
			Msg("Failed to store notification")
	}
}

// List returns the notifications of userID, who must be the caller.
func (s *NotificationService) List(ctx context.Context, callerID, userID int64) ([]domain.Notification, error) {
	ctx, span := startSpan(ctx, "notification.list", attribute.Int64("user.id", userID))
	defer span.End()

	if userID != callerID {
		return nil, fmt.Errorf("list notifications of user %d: %w", userID, ErrForbidden)
	}
	items, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return nonNil(items), nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, callerID, id int64) (*domain.Notification, error) {
	ctx, span := startSpan(ctx, "notification.mark_read", attribute.Int64("notification.id", id))
	defer span.End()

	if err := s.checkOwner(ctx, callerID, id); err != nil {
		return nil, err
	}
	n, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return n, nil
}

// MarkAllRead marks every notification of userID, who must be the caller, as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, callerID, userID int64) (int64, error) {
	ctx, span := startSpan(ctx, "notification.mark_all_read", attribute.Int64("user.id", userID))
	defer span.End()

	if userID != callerID {
		return 0, fmt.Errorf("mark notifications of user %d read: %w", userID, ErrForbidden)
	}
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	span.SetAttributes(attribute.Int64("notification.updated", n))
	return n, nil
}

// Delete removes one of the caller's notifications.
func (s *NotificationService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, "notification.delete", attribute.Int64("notification.id", id))
	defer span.End()

	if err := s.checkOwner(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.notifications.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	return nil
}

func (s *NotificationService) checkOwner(ctx context.Context, callerID, id int64) error {
	n, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get notification %d: %w", id, err)
	}
	if n == nil {
		return fmt.Errorf("get notification %d: %w", id, domain.ErrNotFound)
	}
	if n.UserID != callerID {
		return fmt.Errorf("notification %d: %w", id, ErrForbidden)
	}
	return nil
}
