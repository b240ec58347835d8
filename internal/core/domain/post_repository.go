package domain

import "context"

// PostFilter narrows List results. Zero values mean no filter.
type PostFilter struct {
	AuthorID int64
}

// NewPost holds the columns of a post to insert.
type NewPost struct {
	Title     string
	Content   *string
	Published bool
	AuthorID  int64
}

// PostUpdate lists the post columns that may change. Nil fields are kept.
type PostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
}

// PostRepository defines the data-access contract for posts.
type PostRepository interface {
	// List returns posts newest first, with author and counts included.
	List(ctx context.Context, f PostFilter) ([]Post, error)

	// GetByID returns the post with author included.
	// Returns (nil, nil) when no post is found.
	GetByID(ctx context.Context, id int64) (*Post, error)

	Create(ctx context.Context, p NewPost) (*Post, error)

	// Update returns ErrNotFound when the post does not exist.
	Update(ctx context.Context, id int64, upd PostUpdate) (*Post, error)

	// Delete returns ErrNotFound when the post does not exist.
	Delete(ctx context.Context, id int64) error

	// Search matches title or content, case-insensitively.
	Search(ctx context.Context, q string) ([]Post, error)
}
