package memory

import (
	"context"

	"github.com/duynhne/social-service/internal/core/domain"
)

type messageRepository struct{ s *Store }

func (r *messageRepository) withUsers(m domain.Message) domain.Message {
	m.Sender = r.s.summary(m.SenderID)
	m.Receiver = r.s.summary(m.ReceiverID)
	return m
}

func (r *messageRepository) Conversation(_ context.Context, a, b int64) ([]domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Message{}
	for _, m := range sortedValues(r.s.messages, false) {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, r.withUsers(m))
		}
	}
	return out, nil
}

func (r *messageRepository) GetByID(_ context.Context, id int64) (*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.messages[id]
	if !ok {
		return nil, nil
	}
	m = r.withUsers(m)
	return &m, nil
}

func (r *messageRepository) Create(_ context.Context, body string, senderID, receiverID int64) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[senderID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "messages_sender_id_fkey")
	}
	if _, ok := r.s.users[receiverID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "messages_receiver_id_fkey")
	}
	m := domain.Message{ID: r.s.nextID("messages"), Body: body, SenderID: senderID, ReceiverID: receiverID, CreatedAt: r.s.now()}
	r.s.messages[m.ID] = m
	return &m, nil
}

func (r *messageRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.messages, id)
	return nil
}

type notificationRepository struct{ s *Store }

func (r *notificationRepository) ListByUser(_ context.Context, userID int64) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []domain.Notification{}
	for _, n := range sortedValues(r.s.notifications, true) {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *notificationRepository) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *notificationRepository) Create(_ context.Context, userID int64, kind, message string) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return nil, pgError(codeForeignKeyViolation, "notifications_user_id_fkey")
	}
	n := domain.Notification{ID: r.s.nextID("notifications"), UserID: userID, Type: kind, Message: message, CreatedAt: r.s.now()}
	r.s.notifications[n.ID] = n
	return &n, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id int64) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *notificationRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.notifications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.notifications, id)
	return nil
}
