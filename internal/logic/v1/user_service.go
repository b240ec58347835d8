package v1

import (
	"context"
	"fmt"

	"github.com/duynhne/social-service/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
)

// UserService manages user profiles and the follow graph.
type UserService struct {
	users    domain.UserRepository
	follows  domain.FollowRepository
	hasher   PasswordHasher
	notifier Notifier
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, follows domain.FollowRepository, hasher PasswordHasher, notifier Notifier) *UserService {
	return &UserService{users: users, follows: follows, hasher: hasher, notifier: notifier}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := startSpan(ctx, "user.list")
	defer span.End()

	users, err := s.users.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return nonNil(users), nil
}

// Get returns the user with id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := startSpan(ctx, "user.get", attribute.Int64("user.id", id))
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("get user %d: %w", id, ErrUserNotFound)
	}
	return user, nil
}

// Create adds a user without signing them in. Duplicate emails surface as
// the storage unique violation.
func (s *UserService) Create(ctx context.Context, email, password string, name *string) (*domain.User, error) {
	ctx, span := startSpan(ctx, "user.create")
	defer span.End()

	hash, err := s.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	user, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update changes the caller's own profile.
func (s *UserService) Update(ctx context.Context, callerID, id int64, upd domain.UserUpdate) (*domain.User, error) {
	ctx, span := startSpan(ctx, "user.update", attribute.Int64("user.id", id))
	defer span.End()

	if id != callerID {
		return nil, fmt.Errorf("update user %d: %w", id, ErrForbidden)
	}
	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

// Delete removes the caller's own account.
func (s *UserService) Delete(ctx context.Context, callerID, id int64) error {
	ctx, span := startSpan(ctx, "user.delete", attribute.Int64("user.id", id))
	defer span.End()

	if id != callerID {
		return fmt.Errorf("delete user %d: %w", id, ErrForbidden)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// Followers returns the users following userID.
func (s *UserService) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	ctx, span := startSpan(ctx, "user.followers", attribute.Int64("user.id", userID))
	defer span.End()

	users, err := s.follows.Followers(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list followers of %d: %w", userID, err)
	}
	return nonNil(users), nil
}

// Following returns the users userID follows.
func (s *UserService) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	ctx, span := startSpan(ctx, "user.following", attribute.Int64("user.id", userID))
	defer span.End()

	users, err := s.follows.Following(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list following of %d: %w", userID, err)
	}
	return nonNil(users), nil
}

// Follow makes the caller follow followingID. followerID must be the caller.
func (s *UserService) Follow(ctx context.Context, callerID, followerID, followingID int64) (*domain.Follow, error) {
	ctx, span := startSpan(ctx, "user.follow",
		attribute.Int64("follow.follower_id", followerID),
		attribute.Int64("follow.following_id", followingID),
	)
	defer span.End()

	if followerID != callerID {
		return nil, fmt.Errorf("follow as user %d: %w", followerID, ErrForbidden)
	}
	f, err := s.follows.Create(ctx, followerID, followingID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("follow user %d: %w", followingID, err)
	}
	s.notifier.Notify(ctx, followingID, followerID, domain.NotificationFollow,
		fmt.Sprintf("User %d started following you", followerID))
	return f, nil
}

// Unfollow removes the caller's follow edge to followingID.
func (s *UserService) Unfollow(ctx context.Context, callerID, followerID, followingID int64) error {
	ctx, span := startSpan(ctx, "user.unfollow",
		attribute.Int64("follow.follower_id", followerID),
		attribute.Int64("follow.following_id", followingID),
	)
	defer span.End()

	if followerID != callerID {
		return fmt.Errorf("unfollow as user %d: %w", followerID, ErrForbidden)
	}
	if err := s.follows.Delete(ctx, followerID, followingID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("unfollow user %d: %w", followingID, err)
	}
	return nil
}
