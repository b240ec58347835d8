package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	logicv1 "github.com/duynhne/social-service/internal/logic/v1"
	"github.com/duynhne/social-service/middleware"
)

// Handler-chosen error messages.
const (
	MsgForbidden          = "You are not allowed to perform this action"
	MsgUserNotFound       = "User not found"
	MsgPostNotFound       = "Post not found"
	MsgCommentNotFound    = "Comment not found"
	MsgMessageNotFound    = "Message not found"
	MsgEmailInUse         = "Email already in use"
	MsgInvalidCredentials = "Invalid credentials"
)

// Services bundles the logic-layer dependencies of Handler.
type Services struct {
	Auth          *logicv1.AuthService
	Users         *logicv1.UserService
	Posts         *logicv1.PostService
	Comments      *logicv1.CommentService
	Messages      *logicv1.MessageService
	Notifications *logicv1.NotificationService
	Search        *logicv1.SearchService
}

// Handler groups HTTP handlers for the social API v1.
// Dependencies are injected via the constructor; there is no global state.
type Handler struct {
	svc      Services
	verifier middleware.TokenVerifier
}

// NewHandler creates a new Handler. verifier guards the protected routes.
func NewHandler(svc Services, verifier middleware.TokenVerifier) *Handler {
	return &Handler{svc: svc, verifier: verifier}
}

// RegisterRoutes registers all v1 routes on the given router group.
// Every route validates its inputs before the handler runs; everything
// except health, auth and search also requires a bearer token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	id := middleware.ValidateParams[IDParam]()

	rg.GET("/health", h.Health)
	rg.POST("/auth/register", middleware.ValidateBody[RegisterRequest](), h.Register)
	rg.POST("/auth/login", middleware.ValidateBody[LoginRequest](), h.Login)
	rg.GET("/search", middleware.ValidateQuery[SearchQuery](), h.Search)

	auth := rg.Group("", middleware.RequireAuth(h.verifier))
	auth.GET("/auth/me", h.GetMe)

	auth.GET("/users", h.ListUsers)
	auth.GET("/users/:id", id, h.GetUser)
	auth.POST("/users", middleware.ValidateBody[CreateUserRequest](), h.CreateUser)
	auth.PUT("/users/:id", id, middleware.ValidateBody[UpdateUserRequest](), h.UpdateUser)
	auth.DELETE("/users/:id", id, h.DeleteUser)
	auth.GET("/users/:id/followers", middleware.ValidateParams[UserIDParam](), h.ListFollowers)
	auth.GET("/users/:id/following", middleware.ValidateParams[UserIDParam](), h.ListFollowing)

	auth.POST("/follows", middleware.ValidateBody[FollowRequest](), h.Follow)
	auth.DELETE("/follows", middleware.ValidateBody[FollowRequest](), h.Unfollow)

	auth.GET("/posts", middleware.ValidateQuery[ListPostsQuery](), h.ListPosts)
	auth.GET("/posts/:id", id, h.GetPost)
	auth.POST("/posts", middleware.ValidateBody[CreatePostRequest](), h.CreatePost)
	auth.PUT("/posts/:id", id, middleware.ValidateBody[UpdatePostRequest](), h.UpdatePost)
	auth.DELETE("/posts/:id", id, h.DeletePost)

	auth.GET("/comments", middleware.ValidateQuery[ListCommentsQuery](), h.ListComments)
	auth.GET("/comments/:id", id, h.GetComment)
	auth.POST("/comments", middleware.ValidateBody[CreateCommentRequest](), h.CreateComment)
	auth.PUT("/comments/:id", id, middleware.ValidateBody[UpdateCommentRequest](), h.UpdateComment)
	auth.DELETE("/comments/:id", id, h.DeleteComment)

	auth.GET("/likes", middleware.ValidateQuery[ListLikesQuery](), h.ListLikes)
	auth.POST("/likes", middleware.ValidateBody[LikeRequest](), h.Like)
	auth.DELETE("/likes", middleware.ValidateBody[LikeRequest](), h.Unlike)

	auth.GET("/messages", middleware.ValidateQuery[ConversationQuery](), h.ListMessages)
	auth.GET("/messages/:id", id, h.GetMessage)
	auth.POST("/messages", middleware.ValidateBody[CreateMessageRequest](), h.SendMessage)
	auth.DELETE("/messages/:id", id, h.DeleteMessage)

	auth.GET("/notifications", middleware.ValidateQuery[NotificationsQuery](), h.ListNotifications)
	auth.PUT("/notifications/read-all", middleware.ValidateBody[ReadAllRequest](), h.MarkAllNotificationsRead)
	auth.PUT("/notifications/:id/read", id, h.MarkNotificationRead)
	auth.DELETE("/notifications/:id", id, h.DeleteNotification)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// startSpan opens the web-layer span of a handler.
func startSpan(c *gin.Context, name string) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), name, trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("route", c.FullPath()),
	))
}

// caller returns the authenticated user id. RequireAuth guarantees it on
// protected routes.
func caller(c *gin.Context) int64 {
	id, _ := middleware.UserID(c)
	return id
}

// fail attaches err for the error normalizer, translating logic-layer
// outcomes into handler-chosen statuses first.
func fail(c *gin.Context, span trace.Span, err error) {
	span.RecordError(err)

	var status int
	var msg string
	switch {
	case errors.Is(err, logicv1.ErrForbidden):
		status, msg = http.StatusForbidden, MsgForbidden
	case errors.Is(err, logicv1.ErrUserNotFound):
		status, msg = http.StatusNotFound, MsgUserNotFound
	case errors.Is(err, logicv1.ErrPostNotFound):
		status, msg = http.StatusNotFound, MsgPostNotFound
	case errors.Is(err, logicv1.ErrCommentNotFound):
		status, msg = http.StatusNotFound, MsgCommentNotFound
	case errors.Is(err, logicv1.ErrMessageNotFound):
		status, msg = http.StatusNotFound, MsgMessageNotFound
	case errors.Is(err, logicv1.ErrUserExists):
		status, msg = http.StatusConflict, MsgEmailInUse
	default:
		_ = c.Error(err)
		return
	}
	_ = c.Error(&middleware.StatusError{Status: status, Message: msg, Err: err})
}
