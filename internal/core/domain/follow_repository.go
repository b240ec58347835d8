package domain

import "context"

// FollowRepository defines the data-access contract for follow edges.
type FollowRepository interface {
	// Followers returns the users following userID.
	Followers(ctx context.Context, userID int64) ([]User, error)

	// Following returns the users userID follows.
	Following(ctx context.Context, userID int64) ([]User, error)

	// Create fails with a unique violation when the edge already exists.
	Create(ctx context.Context, followerID, followingID int64) (*Follow, error)

	// Delete returns ErrNotFound when the edge does not exist.
	Delete(ctx context.Context, followerID, followingID int64) error
}
