package repository

import (
	"context"

	"github.com/duynhne/social-service/internal/core/domain"
)

// PgxFollowRepository implements domain.FollowRepository using pgx.
type PgxFollowRepository struct {
	db DBTX
}

// NewFollowRepository creates a new PgxFollowRepository.
func NewFollowRepository(db DBTX) *PgxFollowRepository {
	return &PgxFollowRepository{db: db}
}

// Followers returns the users following userID, earliest follower first.
func (r *PgxFollowRepository) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at, u.id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// Following returns the users userID follows.
func (r *PgxFollowRepository) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at, u.id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// Create inserts the follow edge.
func (r *PgxFollowRepository) Create(ctx context.Context, followerID, followingID int64) (*domain.Follow, error) {
	query := `INSERT INTO follows (follower_id, following_id) VALUES ($1, $2) RETURNING follower_id, following_id, created_at`
	var f domain.Follow
	if err := r.db.QueryRow(ctx, query, followerID, followingID).Scan(&f.FollowerID, &f.FollowingID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes the follow edge identified by the composite key.
func (r *PgxFollowRepository) Delete(ctx context.Context, followerID, followingID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
