package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
)

// PostService manages posts and their likes.
type PostService struct {
	posts    domain.PostRepository
	likes    domain.LikeRepository
	notifier Notifier
}

// NewPostService creates a new PostService.
func NewPostService(posts domain.PostRepository, likes domain.LikeRepository, notifier Notifier) *PostService {
	return &PostService{posts: posts, likes: likes, notifier: notifier}
}

// List returns posts newest first, optionally by one author.
func (s *PostService) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	ctx, span := startSpan(ctx, "post.list", attribute.Int64("post.author_id", f.AuthorID))
	defer span.End()

	posts, err := s.posts.List(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return nonNil(posts), nil
}

// Get returns the post with id.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	ctx, span := startSpan(ctx, "post.get", attribute.Int64("post.id", id))
	defer span.End()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if post == nil {
		return nil, fmt.Errorf("get post %d: %w", id, ErrPostNotFound)
	}
	return post, nil
}

// Create publishes a post authored by the caller.
func (s *PostService) Create(ctx context.Context, callerID int64, p domain.NewPost) (*domain.Post, error) {
	ctx, span := startSpan(ctx, "post.create", attribute.Int64("post.author_id", p.AuthorID))
	defer span.End()

	if p.AuthorID != callerID {
		return nil, fmt.Errorf("create post as user %d: %w", p.AuthorID, ErrForbidden)
	}
	post, err := s.posts.Create(ctx, p)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Update edits a post the caller authored.
func (s *PostService) Update(ctx context.Context, callerID, id int64, upd domain.PostUpdate) (*domain.Post, error) {
	ctx, span := startSpan(ctx, "post.update", attribute.Int64("post.id", id))
	defer span.End()

	if _, err := s.owned(ctx, callerID, id); err != nil {
		return nil, err
	}
	post, err := s.posts.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

// Delete removes a post the caller authored.
func (s *PostService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, "post.delete", attribute.Int64("post.id", id))
	defer span.End()

	if _, err := s.owned(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// Likes returns likes, optionally for one post.
func (s *PostService) Likes(ctx context.Context, f domain.LikeFilter) ([]domain.Like, error) {
	ctx, span := startSpan(ctx, "like.list", attribute.Int64("post.id", f.PostID))
	defer span.End()

	likes, err := s.likes.List(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return nonNil(likes), nil
}

// Like records that userID, who must be the caller, likes postID.
func (s *PostService) Like(ctx context.Context, callerID, postID, userID int64) (*domain.Like, error) {
	ctx, span := startSpan(ctx, "like.create",
		attribute.Int64("post.id", postID),
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	if userID != callerID {
		return nil, fmt.Errorf("like as user %d: %w", userID, ErrForbidden)
	}
	like, err := s.likes.Create(ctx, postID, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("like post %d: %w", postID, err)
	}
	notifyPostAuthor(ctx, s.posts, s.notifier, postID, userID, domain.NotificationLike,
		func(p *domain.Post) string { return fmt.Sprintf("User %d liked your post %q", userID, p.Title) })
	return like, nil
}

// Unlike removes the caller's like from postID.
func (s *PostService) Unlike(ctx context.Context, callerID, postID, userID int64) error {
	ctx, span := startSpan(ctx, "like.delete",
		attribute.Int64("post.id", postID),
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	if userID != callerID {
		return fmt.Errorf("unlike as user %d: %w", userID, ErrForbidden)
	}
	if err := s.likes.Delete(ctx, postID, userID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unlike post %d: %w", postID, err)
	}
	return nil
}

func (s *PostService) owned(ctx context.Context, callerID, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	if post == nil {
		return nil, fmt.Errorf("get post %d: %w", id, domain.ErrNotFound)
	}
	if post.AuthorID != callerID {
		return nil, fmt.Errorf("post %d: %w", id, ErrForbidden)
	}
	return post, nil
}

// notifyPostAuthor tells the author of postID about actorID's activity.
// Lookup failures only skip the notification.
func notifyPostAuthor(ctx context.Context, posts domain.PostRepository, n Notifier, postID, actorID int64, kind string, message func(*domain.Post) string) {
	post, err := posts.GetByID(ctx, postID)
	if err != nil || post == nil {
		return
	}
	n.Notify(ctx, post.AuthorID, actorID, kind, message(post))
}
