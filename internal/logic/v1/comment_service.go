package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
)

// CommentService manages comments on posts.
type CommentService struct {
	comments domain.CommentRepository
	posts    domain.PostRepository
	notifier Notifier
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments domain.CommentRepository, posts domain.PostRepository, notifier Notifier) *CommentService {
	return &CommentService{comments: comments, posts: posts, notifier: notifier}
}

// List returns comments oldest first, optionally for one post.
func (s *CommentService) List(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, error) {
	ctx, span := startSpan(ctx, "comment.list", attribute.Int64("post.id", f.PostID))
	defer span.End()

	comments, err := s.comments.List(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return nonNil(comments), nil
}

// Get returns the comment with id.
func (s *CommentService) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	ctx, span := startSpan(ctx, "comment.get", attribute.Int64("comment.id", id))
	defer span.End()

	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get comment %d: %w", id, err)
	}
	if c == nil {
		return nil, fmt.Errorf("get comment %d: %w", id, ErrCommentNotFound)
	}
	return c, nil
}

// Create adds a comment authored by the caller and notifies the post author.
func (s *CommentService) Create(ctx context.Context, callerID int64, body string, postID, authorID int64) (*domain.Comment, error) {
	ctx, span := startSpan(ctx, "comment.create",
		attribute.Int64("post.id", postID),
		attribute.Int64("comment.author_id", authorID),
	)
	defer span.End()

	if authorID != callerID {
		return nil, fmt.Errorf("comment as user %d: %w", authorID, ErrForbidden)
	}
	c, err := s.comments.Create(ctx, body, postID, authorID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create comment: %w", err)
	}
	notifyPostAuthor(ctx, s.posts, s.notifier, postID, authorID, domain.NotificationComment,
		func(p *domain.Post) string { return fmt.Sprintf("User %d commented on your post %q", authorID, p.Title) })
	return c, nil
}

// Update edits the body of a comment the caller wrote.
func (s *CommentService) Update(ctx context.Context, callerID, id int64, body string) (*domain.Comment, error) {
	ctx, span := startSpan(ctx, "comment.update", attribute.Int64("comment.id", id))
	defer span.End()

	if err := s.checkAuthor(ctx, callerID, id); err != nil {
		return nil, err
	}
	c, err := s.comments.UpdateBody(ctx, id, body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update comment %d: %w", id, err)
	}
	return c, nil
}

// Delete removes a comment the caller wrote.
func (s *CommentService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, "comment.delete", attribute.Int64("comment.id", id))
	defer span.End()

	if err := s.checkAuthor(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}

func (s *CommentService) checkAuthor(ctx context.Context, callerID, id int64) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get comment %d: %w", id, err)
	}
	if c == nil {
		return fmt.Errorf("get comment %d: %w", id, domain.ErrNotFound)
	}
	if c.AuthorID != callerID {
		return fmt.Errorf("comment %d: %w", id, ErrForbidden)
	}
	return nil
}
