package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/duynhne/social-service/internal/core/domain"
)

const postColumns = `id, title, content, published, author_id, created_at, updated_at`

const postWithAuthorSelect = `
	SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
	       u.id, u.email, u.name,
	       (SELECT count(*) FROM comments c WHERE c.post_id = p.id),
	       (SELECT count(*) FROM likes l WHERE l.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// PgxPostRepository implements domain.PostRepository using pgx.
type PgxPostRepository struct {
	db DBTX
}

// NewPostRepository creates a new PgxPostRepository.
func NewPostRepository(db DBTX) *PgxPostRepository {
	return &PgxPostRepository{db: db}
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPostWithAuthor(row pgx.Row) (*domain.Post, error) {
	var (
		p      domain.Post
		author domain.UserSummary
		counts domain.PostCounts
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&author.ID, &author.Email, &author.Name,
		&counts.Comments, &counts.Likes,
	)
	if err != nil {
		return nil, err
	}
	p.Author = &author
	p.Count = &counts
	return &p, nil
}

func collectPostsWithAuthor(rows pgx.Rows) ([]domain.Post, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Post, error) {
		p, err := scanPostWithAuthor(row)
		if err != nil {
			return domain.Post{}, err
		}
		return *p, nil
	})
}

// List returns posts newest first. A zero AuthorID lists every author.
func (r *PgxPostRepository) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	query := postWithAuthorSelect + `
	WHERE ($1::bigint = 0 OR p.author_id = $1)
	ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.Query(ctx, query, f.AuthorID)
	if err != nil {
		return nil, err
	}
	return collectPostsWithAuthor(rows)
}

// GetByID returns (nil, nil) when no post is found.
func (r *PgxPostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := scanPostWithAuthor(r.db.QueryRow(ctx, postWithAuthorSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// Create inserts a post.
func (r *PgxPostRepository) Create(ctx context.Context, np domain.NewPost) (*domain.Post, error) {
	query := `INSERT INTO posts (title, content, published, author_id) VALUES ($1, $2, $3, $4) RETURNING ` + postColumns
	return scanPost(r.db.QueryRow(ctx, query, np.Title, np.Content, np.Published, np.AuthorID))
}

// Update applies the non-nil fields of upd and bumps updated_at.
func (r *PgxPostRepository) Update(ctx context.Context, id int64, upd domain.PostUpdate) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET title = COALESCE($2, title),
		    content = COALESCE($3, content),
		    published = COALESCE($4, published),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns
	p, err := scanPost(r.db.QueryRow(ctx, query, id, upd.Title, upd.Content, upd.Published))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// Delete removes the post together with its comments and likes.
func (r *PgxPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search matches title or content.
func (r *PgxPostRepository) Search(ctx context.Context, q string) ([]domain.Post, error) {
	query := postWithAuthorSelect + `
	WHERE p.title ILIKE $1 OR p.content ILIKE $1
	ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.Query(ctx, query, containsPattern(q))
	if err != nil {
		return nil, err
	}
	return collectPostsWithAuthor(rows)
}
