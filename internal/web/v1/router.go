package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duynhne/social-service/config"
	"github.com/duynhne/social-service/internal/core/domain"
	logicv1 "github.com/duynhne/social-service/internal/logic/v1"
	"github.com/duynhne/social-service/middleware"
)

// Repositories bundles the storage dependencies of the v1 services.
type Repositories struct {
	Users         domain.UserRepository
	Posts         domain.PostRepository
	Comments      domain.CommentRepository
	Likes         domain.LikeRepository
	Follows       domain.FollowRepository
	Messages      domain.MessageRepository
	Notifications domain.NotificationRepository
}

// NewServices wires the logic layer on top of repos.
func NewServices(repos Repositories, tokens *logicv1.TokenManager, hasher logicv1.PasswordHasher) Services {
	notifications := logicv1.NewNotificationService(repos.Notifications)
	return Services{
		Auth:          logicv1.NewAuthService(repos.Users, tokens, hasher),
		Users:         logicv1.NewUserService(repos.Users, repos.Follows, hasher, notifications),
		Posts:         logicv1.NewPostService(repos.Posts, repos.Likes, notifications),
		Comments:      logicv1.NewCommentService(repos.Comments, repos.Posts, notifications),
		Messages:      logicv1.NewMessageService(repos.Messages, notifications),
		Notifications: notifications,
		Search:        logicv1.NewSearchService(repos.Users, repos.Posts, repos.Comments),
	}
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	ServiceName string
	APIPrefix   string
	CORS        config.CORSConfig
	// Ready reports whether /ready should answer 200. Nil means always ready.
	Ready func() bool
}

// NewRouter builds the gin engine: ambient middleware, root probes and the
// v1 routes under opts.APIPrefix.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.TracingMiddleware(opts.ServiceName),
		middleware.LoggingMiddleware("/ready", "/metrics"),
		middleware.PrometheusMiddleware(),
		middleware.Recovery(),
		middleware.CORSMiddleware(opts.CORS),
		middleware.ErrorHandler(),
	)

	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if opts.Ready != nil && !opts.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	h.RegisterRoutes(r.Group(prefix))
	return r
}
