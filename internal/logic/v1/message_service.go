package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
)

// MessageService manages direct messages. Only the two participants of a
// conversation can read it.
type MessageService struct {
	messages domain.MessageRepository
	notifier Notifier
}

// NewMessageService creates a new MessageService.
func NewMessageService(messages domain.MessageRepository, notifier Notifier) *MessageService {
	return &MessageService{messages: messages, notifier: notifier}
}

// Conversation returns the messages between a and b. The caller must be one of them.
func (s *MessageService) Conversation(ctx context.Context, callerID, a, b int64) ([]domain.Message, error) {
	ctx, span := startSpan(ctx, "message.conversation",
		attribute.Int64("message.sender_id", a),
		attribute.Int64("message.receiver_id", b),
	)
	defer span.End()

	if callerID != a && callerID != b {
		return nil, fmt.Errorf("read conversation %d-%d: %w", a, b, ErrForbidden)
	}
	msgs, err := s.messages.Conversation(ctx, a, b)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return nonNil(msgs), nil
}

// Get returns a message the caller sent or received.
func (s *MessageService) Get(ctx context.Context, callerID, id int64) (*domain.Message, error) {
	ctx, span := startSpan(ctx, "message.get", attribute.Int64("message.id", id))
	defer span.End()

	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get message %d: %w", id, err)
	}
	if m == nil {
		return nil, fmt.Errorf("get message %d: %w", id, ErrMessageNotFound)
	}
	if m.SenderID != callerID && m.ReceiverID != callerID {
		return nil, fmt.Errorf("message %d: %w", id, ErrForbidden)
	}
	return m, nil
}

// Send delivers a message from the caller to receiverID.
func (s *MessageService) Send(ctx context.Context, callerID int64, body string, senderID, receiverID int64) (*domain.Message, error) {
	ctx, span := startSpan(ctx, "message.send",
		attribute.Int64("message.sender_id", senderID),
		attribute.Int64("message.receiver_id", receiverID),
	)
	defer span.End()

	if senderID != callerID {
		return nil, fmt.Errorf("send as user %d: %w", senderID, ErrForbidden)
	}
	m, err := s.messages.Create(ctx, body, senderID, receiverID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("send message: %w", err)
	}
	s.notifier.Notify(ctx, receiverID, senderID, domain.NotificationMessage,
		fmt.Sprintf("User %d sent you a message", senderID))
	return m, nil
}

// Delete removes a message the caller sent.
func (s *MessageService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, "message.delete", attribute.Int64("message.id", id))
	defer span.End()

	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("get message %d: %w", id, err)
	}
	if m == nil {
		return fmt.Errorf("get message %d: %w", id, domain.ErrNotFound)
	}
	if m.SenderID != callerID {
		return fmt.Errorf("message %d: %w", id, ErrForbidden)
	}
	if err := s.messages.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	return nil
}
