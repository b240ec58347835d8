package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/social-service/internal/core/domain"
	"github.com/duynhne/social-service/middleware"
)

// ListPosts handles GET /posts.
func (h *Handler) ListPosts(c *gin.Context) {
	ctx, span := startSpan(c, "posts.list")
	defer span.End()

	q := middleware.Query[ListPostsQuery](c)
	posts, err := h.svc.Posts.List(ctx, domain.PostFilter{AuthorID: q.AuthorID})
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost handles GET /posts/:id.
func (h *Handler) GetPost(c *gin.Context) {
	ctx, span := startSpan(c, "posts.get")
	defer span.End()

	post, err := h.svc.Posts.Get(ctx, middleware.Params[IDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost handles POST /posts.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx, span := startSpan(c, "posts.create")
	defer span.End()

	req := middleware.Body[CreatePostRequest](c)
	post, err := h.svc.Posts.Create(ctx, caller(c), req.toDomain())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// UpdatePost handles PUT /posts/:id.
func (h *Handler) UpdatePost(c *gin.Context) {
	ctx, span := startSpan(c, "posts.update")
	defer span.End()

	id := middleware.Params[IDParam](c).Int()
	req := middleware.Body[UpdatePostRequest](c)
	post, err := h.svc.Posts.Update(ctx, caller(c), id, req.toDomain())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost handles DELETE /posts/:id.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx, span := startSpan(c, "posts.delete")
	defer span.End()

	if err := h.svc.Posts.Delete(ctx, caller(c), middleware.Params[IDParam](c).Int()); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListLikes handles GET /likes.
func (h *Handler) ListLikes(c *gin.Context) {
	ctx, span := startSpan(c, "likes.list")
	defer span.End()

	q := middleware.Query[ListLikesQuery](c)
	likes, err := h.svc.Posts.Likes(ctx, domain.LikeFilter{PostID: q.PostID})
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// Like handles POST /likes.
func (h *Handler) Like(c *gin.Context) {
	ctx, span := startSpan(c, "likes.create")
	defer span.End()

	req := middleware.Body[LikeRequest](c)
	like, err := h.svc.Posts.Like(ctx, caller(c), req.PostID, req.UserID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"like": like})
}

// Unlike handles DELETE /likes.
func (h *Handler) Unlike(c *gin.Context) {
	ctx, span := startSpan(c, "likes.delete")
	defer span.End()

	req := middleware.Body[LikeRequest](c)
	if err := h.svc.Posts.Unlike(ctx, caller(c), req.PostID, req.UserID); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComments handles GET /comments.
func (h *Handler) ListComments(c *gin.Context) {
	ctx, span := startSpan(c, "comments.list")
	defer span.End()

	q := middleware.Query[ListCommentsQuery](c)
	comments, err := h.svc.Comments.List(ctx, domain.CommentFilter{PostID: q.PostID})
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// GetComment handles GET /comments/:id.
func (h *Handler) GetComment(c *gin.Context) {
	ctx, span := startSpan(c, "comments.get")
	defer span.End()

	comment, err := h.svc.Comments.Get(ctx, middleware.Params[IDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// CreateComment handles POST /comments.
func (h *Handler) CreateComment(c *gin.Context) {
	ctx, span := startSpan(c, "comments.create")
	defer span.End()

	req := middleware.Body[CreateCommentRequest](c)
	comment, err := h.svc.Comments.Create(ctx, caller(c), req.Body, req.PostID, req.AuthorID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// UpdateComment handles PUT /comments/:id.
func (h *Handler) UpdateComment(c *gin.Context) {
	ctx, span := startSpan(c, "comments.update")
	defer span.End()

	id := middleware.Params[IDParam](c).Int()
	req := middleware.Body[UpdateCommentRequest](c)
	comment, err := h.svc.Comments.Update(ctx, caller(c), id, req.Body)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// DeleteComment handles DELETE /comments/:id.
func (h *Handler) DeleteComment(c *gin.Context) {
	ctx, span := startSpan(c, "comments.delete")
	defer span.End()

	if err := h.svc.Comments.Delete(ctx, caller(c), middleware.Params[IDParam](c).Int()); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}
