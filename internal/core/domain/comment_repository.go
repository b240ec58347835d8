package domain

import "context"

// CommentFilter narrows List results. Zero values mean no filter.
type CommentFilter struct {
	PostID int64
}

// CommentRepository defines the data-access contract for comments.
type CommentRepository interface {
	// List returns comments oldest first with author and post included.
	List(ctx context.Context, f CommentFilter) ([]Comment, error)

	// GetByID returns (nil, nil) when no comment is found.
	GetByID(ctx context.Context, id int64) (*Comment, error)

	Create(ctx context.Context, body string, postID, authorID int64) (*Comment, error)

	// UpdateBody returns ErrNotFound when the comment does not exist.
	UpdateBody(ctx context.Context, id int64, body string) (*Comment, error)

	// Delete returns ErrNotFound when the comment does not exist.
	Delete(ctx context.Context, id int64) error

	// Search matches the body, case-insensitively.
	Search(ctx context.Context, q string) ([]Comment, error)
}
