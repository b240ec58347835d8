package client

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/duynhne/social-service/internal/core/domain"
)

// FeedItem is a post with its like state for the session user.
type FeedItem struct {
	Post      domain.Post
	Likes     int
	LikedByMe bool
}

// PostDetail is a post with its comments and likes.
type PostDetail struct {
	Post      domain.Post
	Comments  []domain.Comment
	Likes     []domain.Like
	LikedByMe bool
}

// Profile is a user page.
type Profile struct {
	User         domain.User
	Posts        []domain.Post
	Followers    []domain.User
	Following    []domain.User
	FollowedByMe bool
}

// Feed loads posts and likes concurrently and marks the posts the session
// user liked.
func (c *Client) Feed(ctx context.Context) ([]FeedItem, error) {
	var (
		posts []domain.Post
		likes []domain.Like
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = c.Posts(gctx, 0)
		return err
	})
	g.Go(func() (err error) {
		likes, err = c.Likes(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	me, signedIn := c.session.CurrentUser()
	count := make(map[int64]int, len(posts))
	mine := make(map[int64]bool)
	for _, l := range likes {
		count[l.PostID]++
		if signedIn && l.UserID == me.ID {
			mine[l.PostID] = true
		}
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, FeedItem{Post: p, Likes: count[p.ID], LikedByMe: mine[p.ID]})
	}
	return items, nil
}

// PostDetail loads a post, its comments and its likes concurrently.
func (c *Client) PostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	var d PostDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.Post(gctx, postID)
		if err != nil {
			return err
		}
		d.Post = *p
		return nil
	})
	g.Go(func() (err error) {
		d.Comments, err = c.Comments(gctx, postID)
		return err
	})
	g.Go(func() (err error) {
		d.Likes, err = c.Likes(gctx, postID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if me, ok := c.session.CurrentUser(); ok {
		for _, l := range d.Likes {
			if l.UserID == me.ID {
				d.LikedByMe = true
				break
			}
		}
	}
	return &d, nil
}

// Profile loads a user with their posts, followers and following concurrently.
func (c *Client) Profile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := c.User(gctx, userID)
		if err != nil {
			return err
		}
		p.User = *u
		return nil
	})
	g.Go(func() (err error) {
		p.Posts, err = c.Posts(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.Followers, err = c.Followers(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		p.Following, err = c.Following(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if me, ok := c.session.CurrentUser(); ok {
		for _, f := range p.Followers {
			if f.ID == me.ID {
				p.FollowedByMe = true
				break
			}
		}
	}
	return &p, nil
}
