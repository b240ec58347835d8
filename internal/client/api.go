package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/duynhne/social-service/internal/core/domain"
)

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// SearchResult groups search matches by entity.
type SearchResult struct {
	Users    []domain.User    `json:"users"`
	Posts    []domain.Post    `json:"posts"`
	Comments []domain.Comment `json:"comments"`
}

// Register creates an account and signs the session in.
func (c *Client) Register(ctx context.Context, email, password string, name *string) (*domain.User, error) {
	in := map[string]any{"email": email, "password": password}
	if name != nil {
		in["name"] = *name
	}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	c.session.SignIn(out.Token, out.User)
	return &out.User, nil
}

// Login verifies credentials and signs the session in.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var out authResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	c.session.SignIn(out.Token, out.User)
	return &out.User, nil
}

// Logout clears the session. Tokens are stateless, so the server is not called.
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the signed-in user as the server sees it.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Users lists every user.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var out struct {
		Users []domain.User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out.Users, err
}

// User returns one user.
func (c *Client) User(ctx context.Context, id int64) (*domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Posts lists posts newest first. A zero authorID lists every author.
func (c *Client) Posts(ctx context.Context, authorID int64) ([]domain.Post, error) {
	path := "/posts"
	if authorID > 0 {
		path += "?" + url.Values{"authorId": {itoa(authorID)}}.Encode()
	}
	var out struct {
		Posts []domain.Post `json:"posts"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Posts, err
}

// Post returns one post.
func (c *Client) Post(ctx context.Context, id int64) (*domain.Post, error) {
	var out struct {
		Post domain.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts/"+itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// CreatePost publishes a post authored by the session user.
func (c *Client) CreatePost(ctx context.Context, title, content string) (*domain.Post, error) {
	me, err := c.me()
	if err != nil {
		return nil, err
	}
	in := map[string]any{"title": title, "authorId": me, "published": true}
	if content != "" {
		in["content"] = content
	}
	var out struct {
		Post domain.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, "/posts", in, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// DeletePost removes a post of the session user.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+itoa(id), nil, nil)
}

// Comments lists the comments of a post, oldest first.
func (c *Client) Comments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var out struct {
		Comments []domain.Comment `json:"comments"`
	}
	path := "/comments?" + url.Values{"postId": {itoa(postID)}}.Encode()
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Comments, err
}

// CreateComment comments on a post as the session user.
func (c *Client) CreateComment(ctx context.Context, postID int64, body string) (*domain.Comment, error) {
	me, err := c.me()
	if err != nil {
		return nil, err
	}
	var out struct {
		Comment domain.Comment `json:"comment"`
	}
	in := map[string]any{"body": body, "postId": postID, "authorId": me}
	if err := c.do(ctx, http.MethodPost, "/comments", in, &out); err != nil {
		return nil, err
	}
	return &out.Comment, nil
}

// DeleteComment removes a comment of the session user.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+itoa(id), nil, nil)
}

// Likes lists likes. A zero postID lists likes of every post.
func (c *Client) Likes(ctx context.Context, postID int64) ([]domain.Like, error) {
	path := "/likes"
	if postID > 0 {
		path += "?" + url.Values{"postId": {itoa(postID)}}.Encode()
	}
	var out struct {
		Likes []domain.Like `json:"likes"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Likes, err
}

// Like likes a post as the session user.
func (c *Client) Like(ctx context.Context, postID int64) (*domain.Like, error) {
	me, err := c.me()
	if err != nil {
		return nil, err
	}
	var out struct {
		Like domain.Like `json:"like"`
	}
	if err := c.do(ctx, http.MethodPost, "/likes", map[string]int64{"postId": postID, "userId": me}, &out); err != nil {
		return nil, err
	}
	return &out.Like, nil
}

// Unlike removes the session user's like from a post.
func (c *Client) Unlike(ctx context.Context, postID int64) error {
	me, err := c.me()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/likes", map[string]int64{"postId": postID, "userId": me}, nil)
}

// Followers lists the users following userID.
func (c *Client) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	var out struct {
		Followers []domain.User `json:"followers"`
	}
	err := c.do(ctx, http.MethodGet, "/users/"+itoa(userID)+"/followers", nil, &out)
	return out.Followers, err
}

// Following lists the users userID follows.
func (c *Client) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	var out struct {
		Following []domain.User `json:"following"`
	}
	err := c.do(ctx, http.MethodGet, "/users/"+itoa(userID)+"/following", nil, &out)
	return out.Following, err
}

// Follow makes the session user follow userID.
func (c *Client) Follow(ctx context.Context, userID int64) error {
	me, err := c.me()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/follows", map[string]int64{"followerId": me, "followingId": userID}, nil)
}

// Unfollow stops the session user following userID.
func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	me, err := c.me()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/follows", map[string]int64{"followerId": me, "followingId": userID}, nil)
}

// Search looks q up across users, posts and comments.
func (c *Client) Search(ctx context.Context, q string) (*SearchResult, error) {
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, "/search?"+url.Values{"q": {q}}.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ErrSignedOut is returned by operations that act as the session user when
// no one is signed in.
var ErrSignedOut = errors.New("not signed in")

func (c *Client) me() (int64, error) {
	u, ok := c.session.CurrentUser()
	if !ok {
		return 0, ErrSignedOut
	}
	return u.ID, nil
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
