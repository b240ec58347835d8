package domain

import "context"

// LikeFilter narrows List results. Zero values mean no filter.
type LikeFilter struct {
	PostID int64
}

// LikeRepository defines the data-access contract for likes.
// A like is identified by the (postID, userID) pair.
type LikeRepository interface {
	List(ctx context.Context, f LikeFilter) ([]Like, error)

	// Create fails with a unique violation when the pair already exists.
	Create(ctx context.Context, postID, userID int64) (*Like, error)

	// Delete returns ErrNotFound when the pair does not exist.
	Delete(ctx context.Context, postID, userID int64) error
}
