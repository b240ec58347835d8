package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/social-service/internal/core/domain"
)

const commentColumns = `id, body, post_id, author_id, created_at`

const commentWithRelationsSelect = `
	SELECT c.id, c.body, c.post_id, c.author_id, c.created_at,
	       u.id, u.email, u.name,
	       p.id, p.title, p.author_id
	FROM comments c
	JOIN users u ON u.id = c.author_id
	JOIN posts p ON p.id = c.post_id`

// PgxCommentRepository implements domain.CommentRepository using pgx.
type PgxCommentRepository struct {
	db DBTX
}

// NewCommentRepository creates a new PgxCommentRepository.
func NewCommentRepository(db DBTX) *PgxCommentRepository {
	return &PgxCommentRepository{db: db}
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Body, &c.PostID, &c.AuthorID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCommentWithRelations(row pgx.Row) (*domain.Comment, error) {
	var (
		c      domain.Comment
		author domain.UserSummary
		post   domain.PostSummary
	)
	err := row.Scan(
		&c.ID, &c.Body, &c.PostID, &c.AuthorID, &c.CreatedAt,
		&author.ID, &author.Email, &author.Name,
		&post.ID, &post.Title, &post.AuthorID,
	)
	if err != nil {
		return nil, err
	}
	c.Author = &author
	c.Post = &post
	return &c, nil
}

func collectComments(rows pgx.Rows) ([]domain.Comment, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Comment, error) {
		c, err := scanCommentWithRelations(row)
		if err != nil {
			return domain.Comment{}, err
		}
		return *c, nil
	})
}

// List returns comments oldest first. A zero PostID lists every post.
func (r *PgxCommentRepository) List(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, error) {
	query := commentWithRelationsSelect + `
	WHERE ($1::bigint = 0 OR c.post_id = $1)
	ORDER BY c.created_at, c.id`
	rows, err := r.db.Query(ctx, query, f.PostID)
	if err != nil {
		return nil, err
	}
	return collectComments(rows)
}

// GetByID returns (nil, nil) when no comment is found.
func (r *PgxCommentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	c, err := scanCommentWithRelations(r.db.QueryRow(ctx, commentWithRelationsSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// Create inserts a comment.
func (r *PgxCommentRepository) Create(ctx context.Context, body string, postID, authorID int64) (*domain.Comment, error) {
	query := `INSERT INTO comments (body, post_id, author_id) VALUES ($1, $2, $3) RETURNING ` + commentColumns
	return scanComment(r.db.QueryRow(ctx, query, body, postID, authorID))
}

// UpdateBody replaces the comment body.
func (r *PgxCommentRepository) UpdateBody(ctx context.Context, id int64, body string) (*domain.Comment, error) {
	query := `UPDATE comments SET body = $2 WHERE id = $1 RETURNING ` + commentColumns
	c, err := scanComment(r.db.QueryRow(ctx, query, id, body))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// Delete removes the comment.
func (r *PgxCommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search matches the comment body.
func (r *PgxCommentRepository) Search(ctx context.Context, q string) ([]domain.Comment, error) {
	query := commentWithRelationsSelect + `
	WHERE c.body ILIKE $1
	ORDER BY c.created_at, c.id`
	rows, err := r.db.Query(ctx, query, containsPattern(q))
	if err != nil {
		return nil, err
	}
	return collectComments(rows)
}
