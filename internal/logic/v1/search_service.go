package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// SearchResult groups matches by entity.
type SearchResult struct {
	Users    []domain.User    `json:"users"`
	Posts    []domain.Post    `json:"posts"`
	Comments []domain.Comment `json:"comments"`
}

// SearchService runs case-insensitive substring search across entities.
type SearchService struct {
	users    domain.UserRepository
	posts    domain.PostRepository
	comments domain.CommentRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(users domain.UserRepository, posts domain.PostRepository, comments domain.CommentRepository) *SearchService {
	return &SearchService{users: users, posts: posts, comments: comments}
}

// Search looks q up in users, posts and comments concurrently. The first
// failing lookup cancels the others.
func (s *SearchService) Search(ctx context.Context, q string) (*SearchResult, error) {
	ctx, span := startSpan(ctx, "search", attribute.Int("search.query_len", len(q)))
	defer span.End()

	var res SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.users.Search(gctx, q)
		if err != nil {
			return fmt.Errorf("search users: %w", err)
		}
		res.Users = nonNil(users)
		return nil
	})
	g.Go(func() error {
		posts, err := s.posts.Search(gctx, q)
		if err != nil {
			return fmt.Errorf("search posts: %w", err)
		}
		res.Posts = nonNil(posts)
		return nil
	})
	g.Go(func() error {
		comments, err := s.comments.Search(gctx, q)
		if err != nil {
			return fmt.Errorf("search comments: %w", err)
		}
		res.Comments = nonNil(comments)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("search.users", len(res.Users)),
		attribute.Int("search.posts", len(res.Posts)),
		attribute.Int("search.comments", len(res.Comments)),
	)
	return &res, nil
}
