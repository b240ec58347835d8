package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/social-service/internal/core/domain"
	"github.com/duynhne/social-service/internal/core/repository/memory"
)

type services struct {
	store         *memory.Store
	tokens        *TokenManager
	auth          *AuthService
	users         *UserService
	posts         *PostService
	comments      *CommentService
	messages      *MessageService
	notifications *NotificationService
	search        *SearchService
}

func newServices(t *testing.T) *services {
	t.Helper()
	s := memory.New()
	tokens := NewTokenManager("test-secret", time.Hour)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	notifications := NewNotificationService(s.Notifications())
	return &services{
		store:         s,
		tokens:        tokens,
		auth:          NewAuthService(s.Users(), tokens, hasher),
		users:         NewUserService(s.Users(), s.Follows(), hasher, notifications),
		posts:         NewPostService(s.Posts(), s.Likes(), notifications),
		comments:      NewCommentService(s.Comments(), s.Posts(), notifications),
		messages:      NewMessageService(s.Messages(), notifications),
		notifications: notifications,
		search:        NewSearchService(s.Users(), s.Posts(), s.Comments()),
	}
}

func (s *services) register(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := s.auth.Register(context.Background(), email, "password123", nil)
	require.NoError(t, err)
	return res
}

func TestAuth_RegisterLogin(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	reg := s.register(t, "a@x.io")
	assert.NotEmpty(t, reg.Token)
	assert.NotEqual(t, "password123", reg.User.PasswordHash)

	id, err := s.tokens.Verify(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id)

	login, err := s.auth.Login(ctx, "a@x.io", "password123")
	require.NoError(t, err)
	id, err = s.tokens.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, id)

	me, err := s.auth.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", me.Email)
}

func TestAuth_Failures(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	s.register(t, "a@x.io")

	_, err := s.auth.Register(ctx, "a@x.io", "password123", nil)
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = s.auth.Login(ctx, "a@x.io", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, "nobody@x.io", "password123")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.auth.Me(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsers_SelfOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "a@x.io").User
	b := s.register(t, "b@x.io").User

	name := "Mallory"
	_, err := s.users.Update(ctx, a.ID, b.ID, domain.UserUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.users.Delete(ctx, a.ID, b.ID), ErrForbidden)

	updated, err := s.users.Update(ctx, a.ID, a.ID, domain.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mallory", *updated.Name)

	_, err = s.users.Get(ctx, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPosts_Ownership(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "a@x.io").User
	b := s.register(t, "b@x.io").User

	_, err := s.posts.Create(ctx, a.ID, domain.NewPost{Title: "spoof", AuthorID: b.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	post, err := s.posts.Create(ctx, a.ID, domain.NewPost{Title: "mine", AuthorID: a.ID})
	require.NoError(t, err)

	title := "hijacked"
	_, err = s.posts.Update(ctx, b.ID, post.ID, domain.PostUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.posts.Delete(ctx, b.ID, post.ID), ErrForbidden)

	assert.ErrorIs(t, s.posts.Delete(ctx, a.ID, 9999), domain.ErrNotFound)
	_, err = s.posts.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)

	require.NoError(t, s.posts.Delete(ctx, a.ID, post.ID))
}

func TestNotifications_GeneratedForOthersOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "a@x.io").User
	b := s.register(t, "b@x.io").User

	post, err := s.posts.Create(ctx, a.ID, domain.NewPost{Title: "Hello", AuthorID: a.ID})
	require.NoError(t, err)

	// Self activity is silent.
	_, err = s.posts.Like(ctx, a.ID, post.ID, a.ID)
	require.NoError(t, err)

	_, err = s.posts.Like(ctx, b.ID, post.ID, b.ID)
	require.NoError(t, err)
	_, err = s.comments.Create(ctx, b.ID, "nice", post.ID, b.ID)
	require.NoError(t, err)
	_, err = s.users.Follow(ctx, b.ID, b.ID, a.ID)
	require.NoError(t, err)
	_, err = s.messages.Send(ctx, b.ID, "hi", b.ID, a.ID)
	require.NoError(t, err)

	list, err := s.notifications.List(ctx, a.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	kinds := []string{list[0].Type, list[1].Type, list[2].Type, list[3].Type}
	assert.ElementsMatch(t, []string{
		domain.NotificationLike, domain.NotificationComment,
		domain.NotificationFollow, domain.NotificationMessage,
	}, kinds)

	_, err = s.notifications.List(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.notifications.MarkRead(ctx, b.ID, list[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	n, err := s.notifications.MarkAllRead(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	assert.ErrorIs(t, s.notifications.Delete(ctx, a.ID, 9999), domain.ErrNotFound)
	require.NoError(t, s.notifications.Delete(ctx, a.ID, list[0].ID))
}

func TestMessages_Participants(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "a@x.io").User
	b := s.register(t, "b@x.io").User
	c := s.register(t, "c@x.io").User

	_, err := s.messages.Send(ctx, a.ID, "spoof", b.ID, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	m, err := s.messages.Send(ctx, a.ID, "hello", a.ID, b.ID)
	require.NoError(t, err)

	conv, err := s.messages.Conversation(ctx, b.ID, a.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, conv, 1)

	_, err = s.messages.Conversation(ctx, c.ID, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.messages.Get(ctx, c.ID, m.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.messages.Get(ctx, a.ID, 9999)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	assert.ErrorIs(t, s.messages.Delete(ctx, b.ID, m.ID), ErrForbidden)
	require.NoError(t, s.messages.Delete(ctx, a.ID, m.ID))
}

func TestComments_AuthorOnly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "a@x.io").User
	b := s.register(t, "b@x.io").User
	post, err := s.posts.Create(ctx, a.ID, domain.NewPost{Title: "t", AuthorID: a.ID})
	require.NoError(t, err)

	_, err = s.comments.Create(ctx, a.ID, "spoof", post.ID, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	c, err := s.comments.Create(ctx, a.ID, "first", post.ID, a.ID)
	require.NoError(t, err)

	_, err = s.comments.Update(ctx, b.ID, c.ID, "edited")
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := s.comments.Update(ctx, a.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)

	_, err = s.comments.Get(ctx, 9999)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestSearch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.register(t, "gopher@x.io").User
	post, err := s.posts.Create(ctx, a.ID, domain.NewPost{Title: "Gopher tricks", AuthorID: a.ID})
	require.NoError(t, err)
	_, err = s.comments.Create(ctx, a.ID, "more GOPHER please", post.ID, a.ID)
	require.NoError(t, err)

	res, err := s.search.Search(ctx, "gopher")
	require.NoError(t, err)
	assert.Len(t, res.Users, 1)
	assert.Len(t, res.Posts, 1)
	assert.Len(t, res.Comments, 1)

	res, err = s.search.Search(ctx, "nothing-matches")
	require.NoError(t, err)
	assert.NotNil(t, res.Users)
	assert.Empty(t, res.Posts)
}

type failingPosts struct {
	domain.PostRepository
}

var errStorage = errors.New("storage down")

func (failingPosts) Search(context.Context, string) ([]domain.Post, error) {
	return nil, errStorage
}

func TestSearch_PropagatesFailure(t *testing.T) {
	store := memory.New()
	svc := NewSearchService(store.Users(), failingPosts{store.Posts()}, store.Comments())

	_, err := svc.Search(context.Background(), "x")
	assert.ErrorIs(t, err, errStorage)
}
