package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/social-service/internal/core/domain"
)

// PgxLikeRepository implements domain.LikeRepository using pgx.
type PgxLikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a new PgxLikeRepository.
func NewLikeRepository(db DBTX) *PgxLikeRepository {
	return &PgxLikeRepository{db: db}
}

// List returns likes with the liking user and the post included.
func (r *PgxLikeRepository) List(ctx context.Context, f domain.LikeFilter) ([]domain.Like, error) {
	query := `
		SELECT l.id, l.post_id, l.user_id, l.created_at,
		       u.id, u.email, u.name,
		       p.id, p.title, p.author_id
		FROM likes l
		JOIN users u ON u.id = l.user_id
		JOIN posts p ON p.id = l.post_id
		WHERE ($1::bigint = 0 OR l.post_id = $1)
		ORDER BY l.id`
	rows, err := r.db.Query(ctx, query, f.PostID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Like, error) {
		var (
			l    domain.Like
			user domain.UserSummary
			post domain.PostSummary
		)
		err := row.Scan(
			&l.ID, &l.PostID, &l.UserID, &l.CreatedAt,
			&user.ID, &user.Email, &user.Name,
			&post.ID, &post.Title, &post.AuthorID,
		)
		l.User = &user
		l.Post = &post
		return l, err
	})
}

// Create inserts the like. A second like of the same post by the same user
// violates the (post_id, user_id) unique constraint.
func (r *PgxLikeRepository) Create(ctx context.Context, postID, userID int64) (*domain.Like, error) {
	query := `INSERT INTO likes (post_id, user_id) VALUES ($1, $2) RETURNING id, post_id, user_id, created_at`
	var l domain.Like
	if err := r.db.QueryRow(ctx, query, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Delete removes the like identified by the composite key.
func (r *PgxLikeRepository) Delete(ctx context.Context, postID, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
