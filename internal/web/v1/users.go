package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/social-service/middleware"
)

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, span := startSpan(c, "users.list")
	defer span.End()

	users, err := h.svc.Users.List(ctx)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /users/:id.
func (h *Handler) GetUser(c *gin.Context) {
	ctx, span := startSpan(c, "users.get")
	defer span.End()

	user, err := h.svc.Users.Get(ctx, middleware.Params[IDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser handles POST /users. Unlike registration it does not sign the
// new user in; duplicate emails surface as 409 from the store.
func (h *Handler) CreateUser(c *gin.Context) {
	ctx, span := startSpan(c, "users.create")
	defer span.End()

	req := middleware.Body[CreateUserRequest](c)
	user, err := h.svc.Users.Create(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser handles PUT /users/:id.
func (h *Handler) UpdateUser(c *gin.Context) {
	ctx, span := startSpan(c, "users.update")
	defer span.End()

	id := middleware.Params[IDParam](c).Int()
	req := middleware.Body[UpdateUserRequest](c)
	user, err := h.svc.Users.Update(ctx, caller(c), id, req.toDomain())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser handles DELETE /users/:id.
func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := startSpan(c, "users.delete")
	defer span.End()

	if err := h.svc.Users.Delete(ctx, caller(c), middleware.Params[IDParam](c).Int()); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListFollowers handles GET /users/:id/followers.
func (h *Handler) ListFollowers(c *gin.Context) {
	ctx, span := startSpan(c, "users.followers")
	defer span.End()

	users, err := h.svc.Users.Followers(ctx, middleware.Params[UserIDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": users})
}

// ListFollowing handles GET /users/:id/following.
func (h *Handler) ListFollowing(c *gin.Context) {
	ctx, span := startSpan(c, "users.following")
	defer span.End()

	users, err := h.svc.Users.Following(ctx, middleware.Params[UserIDParam](c).Int())
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": users})
}

// Follow handles POST /follows.
func (h *Handler) Follow(c *gin.Context) {
	ctx, span := startSpan(c, "follows.create")
	defer span.End()

	req := middleware.Body[FollowRequest](c)
	follow, err := h.svc.Users.Follow(ctx, caller(c), req.FollowerID, req.FollowingID)
	if err != nil {
		fail(c, span, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"follow": follow})
}

// Unfollow handles DELETE /follows.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx, span := startSpan(c, "follows.delete")
	defer span.End()

	req := middleware.Body[FollowRequest](c)
	if err := h.svc.Users.Unfollow(ctx, caller(c), req.FollowerID, req.FollowingID); err != nil {
		fail(c, span, err)
		return
	}
	c.Status(http.StatusNoContent)
}
