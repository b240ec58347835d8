package domain

import "context"

// MessageRepository defines the data-access contract for direct messages.
type MessageRepository interface {
	// Conversation returns messages exchanged between a and b in either
	// direction, oldest first, with sender and receiver included.
	Conversation(ctx context.Context, a, b int64) ([]Message, error)

	// GetByID returns (nil, nil) when no message is found.
	GetByID(ctx context.Context, id int64) (*Message, error)

	Create(ctx context.Context, body string, senderID, receiverID int64) (*Message, error)

	// Delete returns ErrNotFound when the message does not exist.
	Delete(ctx context.Context, id int64) error
}
