package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/social-service/internal/core/domain"
)

const messageWithUsersSelect = `
	SELECT m.id, m.body, m.sender_id, m.receiver_id, m.created_at,
	       s.id, s.email, s.name,
	       r.id, r.email, r.name
	FROM messages m
	JOIN users s ON s.id = m.sender_id
	JOIN users r ON r.id = m.receiver_id`

// PgxMessageRepository implements domain.MessageRepository using pgx.
type PgxMessageRepository struct {
	db DBTX
}

// NewMessageRepository creates a new PgxMessageRepository.
func NewMessageRepository(db DBTX) *PgxMessageRepository {
	return &PgxMessageRepository{db: db}
}

func scanMessageWithUsers(row pgx.Row) (*domain.Message, error) {
	var (
		m                domain.Message
		sender, receiver domain.UserSummary
	)
	err := row.Scan(
		&m.ID, &m.Body, &m.SenderID, &m.ReceiverID, &m.CreatedAt,
		&sender.ID, &sender.Email, &sender.Name,
		&receiver.ID, &receiver.Email, &receiver.Name,
	)
	if err != nil {
		return nil, err
	}
	m.Sender = &sender
	m.Receiver = &receiver
	return &m, nil
}

// Conversation returns the messages between a and b in either direction, oldest first.
func (r *PgxMessageRepository) Conversation(ctx context.Context, a, b int64) ([]domain.Message, error) {
	query := messageWithUsersSelect + `
	WHERE (m.sender_id = $1 AND m.receiver_id = $2)
	   OR (m.sender_id = $2 AND m.receiver_id = $1)
	ORDER BY m.created_at, m.id`
	rows, err := r.db.Query(ctx, query, a, b)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Message, error) {
		m, err := scanMessageWithUsers(row)
		if err != nil {
			return domain.Message{}, err
		}
		return *m, nil
	})
}

// GetByID returns (nil, nil) when no message is found.
func (r *PgxMessageRepository) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	m, err := scanMessageWithUsers(r.db.QueryRow(ctx, messageWithUsersSelect+` WHERE m.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Create inserts a message.
func (r *PgxMessageRepository) Create(ctx context.Context, body string, senderID, receiverID int64) (*domain.Message, error) {
	query := `INSERT INTO messages (body, sender_id, receiver_id) VALUES ($1, $2, $3)
		RETURNING id, body, sender_id, receiver_id, created_at`
	var m domain.Message
	err := r.db.QueryRow(ctx, query, body, senderID, receiverID).
		Scan(&m.ID, &m.Body, &m.SenderID, &m.ReceiverID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes the message.
func (r *PgxMessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
